package cacheengine

import (
	"fmt"
	"strings"
)

// ChannelKind identifies which notification channel family a publication
// arrived on.
type ChannelKind int

const (
	ChannelUnknown ChannelKind = iota
	ChannelStandard
	ChannelDetailed
)

// ParsedInput is the syntactic result of splitting a channel+payload pair,
// before event-name table lookup and before self-filtering.
type ParsedInput struct {
	Kind       ChannelKind
	Key        string
	Originator string // set only for ChannelDetailed
	EventName  string
	EventArg   string // set only for ChannelDetailed; may itself contain ':'
}

// Parser splits raw (channel, payload) notifications for one database index
// into ParsedInput values. Reimplementations should parameterize by
// database index rather than hard-code 0; this one does.
type Parser struct {
	standardPrefix string
	detailedPrefix string
}

// NewParser builds a Parser for the given database index, constructing both
// channel prefixes from it.
func NewParser(dbIndex int) *Parser {
	return &Parser{
		standardPrefix: fmt.Sprintf("__keyspace@%d__:", dbIndex),
		detailedPrefix: fmt.Sprintf("__keyspace_detailed@%d__:", dbIndex),
	}
}

// Parse determines the channel family by literal prefix match, strips the
// prefix to recover the (possibly empty) key, and for the detailed family
// splits the payload into originator/event-name/event-arg on the first two
// ':' only — the remainder retains any embedded ':' verbatim.
func (p *Parser) Parse(channel, payload string) ParsedInput {
	if key, ok := strings.CutPrefix(channel, p.standardPrefix); ok {
		return ParsedInput{Kind: ChannelStandard, Key: key, EventName: payload}
	}
	if key, ok := strings.CutPrefix(channel, p.detailedPrefix); ok {
		originator, rest, _ := strings.Cut(payload, ":")
		eventName, eventArg, _ := strings.Cut(rest, ":")
		return ParsedInput{
			Kind:       ChannelDetailed,
			Key:        key,
			Originator: originator,
			EventName:  eventName,
			EventArg:   eventArg,
		}
	}
	return ParsedInput{Kind: ChannelUnknown}
}

// EventKind names the tagged variants of a parsed Event.
type EventKind int

const (
	EventIgnored EventKind = iota
	EventExpired
	EventDeleted
	EventExpire
	EventRenamed
	EventStringSet
	EventStringMutated
	EventHashFieldChanged
	EventSetMemberRemoved
	EventSortedSetMemberChanged
	EventSortedSetRangeByScoreRemoved
	EventSortedSetRangeInvalidated
)

// String names the event kind for metrics labels and logging.
func (k EventKind) String() string {
	switch k {
	case EventExpired:
		return "expired"
	case EventDeleted:
		return "deleted"
	case EventExpire:
		return "expire"
	case EventRenamed:
		return "renamed"
	case EventStringSet:
		return "string_set"
	case EventStringMutated:
		return "string_mutated"
	case EventHashFieldChanged:
		return "hash_field_changed"
	case EventSetMemberRemoved:
		return "set_member_removed"
	case EventSortedSetMemberChanged:
		return "sortedset_member_changed"
	case EventSortedSetRangeByScoreRemoved:
		return "sortedset_range_by_score_removed"
	case EventSortedSetRangeInvalidated:
		return "sortedset_range_invalidated"
	default:
		return "ignored"
	}
}

// Event is the semantic, tagged-variant result of applying the invalidation
// table to a ParsedInput. Only the fields relevant to Kind are
// meaningful; the rest are zero.
type Event struct {
	Kind EventKind

	Key  string // affected key, for every kind except Ignored
	From string // Renamed: source key (equals Key)
	To   string // Renamed: destination key

	Field string // HashFieldChanged

	MemberToken       string // SetMemberRemoved: opaque member identity token
	SortedMemberToken int64  // SortedSetMemberChanged: numeric member identity token

	RangeStart   float64
	RangeStop    float64
	RangeExclude Exclude
}
