// Package notation implements a compact textual encoding of catan.Action,
// supplementing the engine with a human-readable move log format (§5 of
// SPEC_FULL.md). It is a pure convenience layer over the Action sum type:
// it has no bearing on legality or transition semantics, the way the
// teacher's internal/notation package is a pure text form over its own
// action types (internal/replay/notation.go).
package notation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lukev/catan2p/internal/catan"
	"github.com/lukev/catan2p/internal/rules"
)

// resourceCodes gives every resource a single stable letter so encoded
// bundles stay compact: B=brick, L=lumber, W=wool, G=grain, O=ore.
var resourceCodes = map[rules.ResourceKind]byte{
	rules.Brick:  'B',
	rules.Lumber: 'L',
	rules.Wool:   'W',
	rules.Grain:  'G',
	rules.Ore:    'O',
}

var resourceByCode = func() map[byte]rules.ResourceKind {
	out := make(map[byte]rules.ResourceKind, len(resourceCodes))
	for r, c := range resourceCodes {
		out[c] = r
	}
	return out
}()

// Encode renders a into its compact notation string.
func Encode(a catan.Action) (string, error) {
	switch a.Kind {
	case catan.PlaceSettlement:
		return tag("S", a.Vertex, a.Free), nil
	case catan.PlaceRoad:
		return tag("R", a.Edge, a.Free), nil
	case catan.BuildCity:
		return fmt.Sprintf("C%d", a.Vertex), nil
	case catan.RollDice:
		if a.DiceForced {
			return fmt.Sprintf("ROLL%d%d", a.Die1, a.Die2), nil
		}
		return "ROLL", nil
	case catan.MoveRobber:
		victim := "-"
		if a.Victim >= 0 {
			victim = strconv.Itoa(a.Victim)
		}
		return fmt.Sprintf("MV%d:%s", a.Tile, victim), nil
	case catan.DiscardResources:
		return "DISCARD:" + encodeBundle(a.Give), nil
	case catan.OfferPlayerTrade:
		return fmt.Sprintf("OFFER:%s>%s", encodeBundle(a.Give), encodeBundle(a.Receive)), nil
	case catan.AcceptPlayerTrade:
		return "ACCEPT", nil
	case catan.DeclinePlayerTrade:
		return "DECLINE", nil
	case catan.TradeBank:
		return fmt.Sprintf("BANK:%s>%s", encodeBundle(a.Give), encodeBundle(a.Receive)), nil
	case catan.BuyDevelopment:
		return "BUYDEV", nil
	case catan.PlayKnight:
		return "KNIGHT", nil
	case catan.PlayProgress:
		switch a.ProgressKind {
		case rules.RoadBuilding:
			return fmt.Sprintf("RB:%d-%d", a.Edge, a.Edge2), nil
		case rules.YearOfPlenty:
			return "YOP:" + encodeBundle(a.Give), nil
		case rules.Monopoly:
			code, ok := resourceCodes[a.MonopolyResource]
			if !ok {
				return "", fmt.Errorf("notation: unknown monopoly resource %v", a.MonopolyResource)
			}
			return fmt.Sprintf("MONO:%c", code), nil
		}
		return "", fmt.Errorf("notation: unknown progress kind %v", a.ProgressKind)
	case catan.EndTurn:
		return "END", nil
	default:
		return "", fmt.Errorf("notation: unknown action kind %v", a.Kind)
	}
}

func tag(prefix string, id int, free bool) string {
	if free {
		return fmt.Sprintf("%s%dF", prefix, id)
	}
	return fmt.Sprintf("%s%d", prefix, id)
}

// Decode parses a notation string back into an Action. It performs no
// legality checking; callers must still run the result through
// catan.IsLegal or catan.Apply.
func Decode(s string) (catan.Action, error) {
	switch {
	case s == "ROLL":
		return catan.NewRollDice(), nil
	case strings.HasPrefix(s, "ROLL") && len(s) == 6:
		d1, err1 := strconv.Atoi(s[4:5])
		d2, err2 := strconv.Atoi(s[5:6])
		if err1 != nil || err2 != nil {
			return catan.Action{}, fmt.Errorf("notation: bad forced roll %q", s)
		}
		return catan.NewForcedRollDice(d1, d2), nil
	case s == "ACCEPT":
		return catan.NewAcceptPlayerTrade(), nil
	case s == "DECLINE":
		return catan.NewDeclinePlayerTrade(), nil
	case s == "BUYDEV":
		return catan.NewBuyDevelopment(), nil
	case s == "KNIGHT":
		return catan.NewPlayKnight(), nil
	case s == "END":
		return catan.NewEndTurn(), nil
	case strings.HasPrefix(s, "S"):
		vertex, free, err := decodeTag(s[1:])
		if err != nil {
			return catan.Action{}, err
		}
		return catan.NewPlaceSettlement(vertex, free), nil
	case strings.HasPrefix(s, "R") && !strings.HasPrefix(s, "RB:"):
		edge, free, err := decodeTag(s[1:])
		if err != nil {
			return catan.Action{}, err
		}
		return catan.NewPlaceRoad(edge, free), nil
	case strings.HasPrefix(s, "C"):
		v, err := strconv.Atoi(s[1:])
		if err != nil {
			return catan.Action{}, fmt.Errorf("notation: bad city vertex in %q: %w", s, err)
		}
		return catan.NewBuildCity(v), nil
	case strings.HasPrefix(s, "MV"):
		return decodeMoveRobber(s)
	case strings.HasPrefix(s, "DISCARD:"):
		bundle, err := decodeBundle(strings.TrimPrefix(s, "DISCARD:"))
		if err != nil {
			return catan.Action{}, err
		}
		return catan.NewDiscardResources(bundle), nil
	case strings.HasPrefix(s, "OFFER:"):
		give, receive, err := decodeTrade(strings.TrimPrefix(s, "OFFER:"))
		if err != nil {
			return catan.Action{}, err
		}
		return catan.NewOfferPlayerTrade(give, receive), nil
	case strings.HasPrefix(s, "BANK:"):
		give, receive, err := decodeTrade(strings.TrimPrefix(s, "BANK:"))
		if err != nil {
			return catan.Action{}, err
		}
		return catan.NewTradeBank(give, receive), nil
	case strings.HasPrefix(s, "RB:"):
		return decodeRoadBuilding(strings.TrimPrefix(s, "RB:"))
	case strings.HasPrefix(s, "YOP:"):
		bundle, err := decodeBundle(strings.TrimPrefix(s, "YOP:"))
		if err != nil {
			return catan.Action{}, err
		}
		return catan.NewPlayYearOfPlenty(bundle), nil
	case strings.HasPrefix(s, "MONO:"):
		code := strings.TrimPrefix(s, "MONO:")
		if len(code) != 1 {
			return catan.Action{}, fmt.Errorf("notation: bad monopoly resource in %q", s)
		}
		r, ok := resourceByCode[code[0]]
		if !ok {
			return catan.Action{}, fmt.Errorf("notation: unknown resource code %q", code)
		}
		return catan.NewPlayMonopoly(r), nil
	default:
		return catan.Action{}, fmt.Errorf("notation: unrecognized action %q", s)
	}
}

func decodeTag(rest string) (id int, free bool, err error) {
	if strings.HasSuffix(rest, "F") {
		free = true
		rest = strings.TrimSuffix(rest, "F")
	}
	id, err = strconv.Atoi(rest)
	if err != nil {
		return 0, false, fmt.Errorf("notation: bad id in %q: %w", rest, err)
	}
	return id, free, nil
}

func decodeMoveRobber(s string) (catan.Action, error) {
	body := strings.TrimPrefix(s, "MV")
	parts := strings.SplitN(body, ":", 2)
	if len(parts) != 2 {
		return catan.Action{}, fmt.Errorf("notation: bad move-robber action %q", s)
	}
	tile, err := strconv.Atoi(parts[0])
	if err != nil {
		return catan.Action{}, fmt.Errorf("notation: bad tile in %q: %w", s, err)
	}
	victim := -1
	if parts[1] != "-" {
		victim, err = strconv.Atoi(parts[1])
		if err != nil {
			return catan.Action{}, fmt.Errorf("notation: bad victim in %q: %w", s, err)
		}
	}
	return catan.NewMoveRobber(tile, victim), nil
}

func decodeRoadBuilding(body string) (catan.Action, error) {
	parts := strings.SplitN(body, "-", 2)
	if len(parts) != 2 {
		return catan.Action{}, fmt.Errorf("notation: bad road-building pair %q", body)
	}
	e1, err1 := strconv.Atoi(parts[0])
	e2, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return catan.Action{}, fmt.Errorf("notation: bad road-building edges %q", body)
	}
	return catan.NewPlayRoadBuilding(e1, e2), nil
}

func decodeTrade(body string) (give, receive rules.ResourceBundle, err error) {
	parts := strings.SplitN(body, ">", 2)
	if len(parts) != 2 {
		return give, receive, fmt.Errorf("notation: bad trade %q", body)
	}
	give, err = decodeBundle(parts[0])
	if err != nil {
		return give, receive, err
	}
	receive, err = decodeBundle(parts[1])
	return give, receive, err
}

// encodeBundle renders a bundle as comma-separated <code><count> pairs in
// canonical resource order, e.g. "B2,O3".
func encodeBundle(b rules.ResourceBundle) string {
	var parts []string
	for _, r := range rules.Resources {
		if n := b.Get(r); n != 0 {
			parts = append(parts, fmt.Sprintf("%c%d", resourceCodes[r], n))
		}
	}
	return strings.Join(parts, ",")
}

func decodeBundle(s string) (rules.ResourceBundle, error) {
	var b rules.ResourceBundle
	if s == "" {
		return b, nil
	}
	for _, part := range strings.Split(s, ",") {
		if len(part) < 2 {
			return b, fmt.Errorf("notation: bad bundle entry %q", part)
		}
		r, ok := resourceByCode[part[0]]
		if !ok {
			return b, fmt.Errorf("notation: unknown resource code %q", part[:1])
		}
		n, err := strconv.Atoi(part[1:])
		if err != nil {
			return b, fmt.Errorf("notation: bad count in %q: %w", part, err)
		}
		b = b.Set(r, n)
	}
	return b, nil
}
