package command

import (
	"fmt"
	"strings"
	"time"
)

// BanAttr is one of the recognized /ban query attributes.
type BanAttr string

const (
	BanAttrName        BanAttr = "name"
	BanAttrFingerprint BanAttr = "fingerprint"
	BanAttrIP          BanAttr = "ip"
)

// BanTerm is one `<attr>=<value> <duration>` pair from a multi-attribute
// /ban query.
type BanTerm struct {
	Attr     BanAttr
	Value    string
	Duration time.Duration
}

// BanQuery is the parsed result of /ban's grammar (spec.md §4.4). Exactly
// one of Single or Terms is populated.
type BanQuery struct {
	// Single holds the shorthand "<name> <duration>" form: ban the named
	// connected member by fingerprint.
	Single *BanTerm
	// Terms holds one or more "<attr>=<value> <duration>" pairs.
	Terms []BanTerm
}

// ParseBanQuery parses the argument tokens following "/ban".
func ParseBanQuery(args []string) (BanQuery, error) {
	if len(args) < 2 {
		return BanQuery{}, fmt.Errorf("usage: /ban <name> <duration> or /ban <attr>=<value> <duration> ...")
	}

	if !strings.Contains(args[0], "=") {
		dur, err := time.ParseDuration(args[1])
		if err != nil {
			return BanQuery{}, fmt.Errorf("invalid duration %q: %w", args[1], err)
		}
		return BanQuery{Single: &BanTerm{Attr: BanAttrName, Value: args[0], Duration: dur}}, nil
	}

	if len(args)%2 != 0 {
		return BanQuery{}, fmt.Errorf("each <attr>=<value> must be followed by a duration")
	}

	terms := make([]BanTerm, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		attr, value, ok := strings.Cut(args[i], "=")
		if !ok {
			return BanQuery{}, fmt.Errorf("malformed attribute %q", args[i])
		}
		switch BanAttr(attr) {
		case BanAttrName, BanAttrFingerprint, BanAttrIP:
		default:
			return BanQuery{}, fmt.Errorf("unknown ban attribute %q", attr)
		}
		dur, err := time.ParseDuration(args[i+1])
		if err != nil {
			return BanQuery{}, fmt.Errorf("invalid duration %q: %w", args[i+1], err)
		}
		terms = append(terms, BanTerm{Attr: BanAttr(attr), Value: value, Duration: dur})
	}
	return BanQuery{Terms: terms}, nil
}
