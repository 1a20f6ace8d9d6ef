package command

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
)

// Matcher inspects raw text and either claims it (returning a typed
// command), rejects it with a validation error (claimed but
// malformed), or passes (not this command's shape).
type Matcher func(text string) (Command, bool, error)

// matchers is the grammar in fixed priority order; first match wins.
var matchers = []Matcher{
	matchRideTicket,
	matchApprovalReceipt,
	matchJugUpdate,
	matchWaterQuery,
	matchSprintStart,
	matchSaleLogged,
	matchGreenlights,
}

// Parse runs the grammar over one message. A (nil, nil) return means
// no matcher claimed the text; the caller drops it without a reply.
func Parse(text string) (Command, error) {
	for _, m := range matchers {
		cmd, ok, err := m(text)
		if err != nil {
			return nil, err
		}
		if ok {
			return cmd, nil
		}
	}
	return nil, nil
}

func matchRideTicket(text string) (Command, bool, error) {
	fields := strings.Split(text, "•")
	if len(fields) != 6 {
		return nil, false, nil
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	event, endTime := fields[3], ""
	if idx := strings.Index(fields[3], "+"); idx >= 0 {
		event = strings.TrimSpace(fields[3][:idx])
		endTime = strings.TrimSpace(fields[3][idx+1:])
	}
	return RideTicket{
		Who:       fields[0],
		ReadyTime: fields[1],
		Location:  fields[2],
		Event:     event,
		EndTime:   endTime,
		Gear:      fields[4],
		Contact:   fields[5],
	}, true, nil
}

var digitsRe = regexp.MustCompile(`\d+`)

func matchApprovalReceipt(text string) (Command, bool, error) {
	const prefix = "OK —"
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, prefix) {
		return nil, false, nil
	}
	parts := strings.Split(strings.TrimSpace(strings.TrimPrefix(trimmed, prefix)), "|")
	if len(parts) < 5 {
		return nil, false, nil
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	kid, title := parts[0], ""
	if idx := strings.Index(parts[0], ":"); idx >= 0 {
		kid = strings.TrimSpace(parts[0][:idx])
		title = strings.TrimSpace(parts[0][idx+1:])
	}

	start, end := parts[1], ""
	if idx := strings.Index(parts[1], "–"); idx >= 0 {
		start = strings.TrimSpace(parts[1][:idx])
		end = strings.TrimSpace(parts[1][idx+len("–"):])
	}

	tokens := 1
	if m := digitsRe.FindString(parts[2]); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			tokens = n
		}
	}

	return ApprovalReceipt{
		Kid:            kid,
		Title:          title,
		Start:          start,
		End:            end,
		Tokens:         tokens,
		PickupLocation: parts[3],
		Date:           parts[4],
	}, true, nil
}

func matchJugUpdate(text string) (Command, bool, error) {
	const prefix = "/jug "
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, prefix) {
		return nil, false, nil
	}
	fields := strings.Fields(strings.TrimPrefix(trimmed, prefix))
	if len(fields) != 2 {
		return nil, false, errors.ValidationError("usage: /jug <1-6> <full|empty|in_use>")
	}
	jug, err := strconv.Atoi(fields[0])
	if err != nil || jug < 1 || jug > 6 {
		return nil, false, errors.ValidationError("jug number must be 1-6")
	}
	switch fields[1] {
	case "full", "empty", "in_use":
	default:
		return nil, false, errors.ValidationError("status must be full, empty or in_use")
	}
	return JugUpdate{Jug: jug, Status: fields[1]}, true, nil
}

func matchWaterQuery(text string) (Command, bool, error) {
	if strings.TrimSpace(text) != "/water" {
		return nil, false, nil
	}
	return WaterQuery{}, true, nil
}

func matchSprintStart(text string) (Command, bool, error) {
	const prefix = "/sprint "
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, prefix) {
		return nil, false, nil
	}
	fields := strings.Fields(strings.TrimPrefix(trimmed, prefix))
	if len(fields) != 2 {
		return nil, false, errors.ValidationError("usage: /sprint <revenue|fulfill> <target>")
	}
	switch fields[0] {
	case "revenue", "fulfill":
	default:
		return nil, false, errors.ValidationError("sprint type must be revenue or fulfill")
	}
	target, err := strconv.ParseFloat(strings.TrimPrefix(fields[1], "$"), 64)
	if err != nil || target <= 0 {
		return nil, false, errors.ValidationError("sprint target must be a positive number")
	}
	return SprintStart{Kind: fields[0], Target: target}, true, nil
}

var saleRe = regexp.MustCompile(`^/sold\s+\$?(\d+(?:\.\d{1,2})?)\s+(.+?)\s+#(\S+)\s*$`)

func matchSaleLogged(text string) (Command, bool, error) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/sold ") {
		return nil, false, nil
	}
	m := saleRe.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, false, errors.ValidationError("usage: /sold <amount> <product> #<channel>")
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, false, errors.ValidationError("sale amount must be a number")
	}
	return SaleLogged{
		AmountCents: int64(math.Round(amount * 100)),
		Product:     m[2],
		Channel:     m[3],
	}, true, nil
}

func matchGreenlights(text string) (Command, bool, error) {
	const prefix = "Greenlights "
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, prefix) {
		return nil, false, nil
	}
	rest := strings.TrimPrefix(trimmed, prefix)
	idx := strings.Index(rest, "—")
	if idx < 0 {
		return nil, false, nil
	}
	day := strings.TrimSpace(rest[:idx])
	if day == "" {
		return nil, false, nil
	}
	var entries []GreenlightEntry
	for _, chunk := range strings.Split(rest[idx+len("—"):], "|") {
		colon := strings.Index(chunk, ":")
		if colon < 0 {
			return nil, false, nil
		}
		child := strings.TrimSpace(chunk[:colon])
		activities := strings.TrimSpace(chunk[colon+1:])
		if child == "" {
			return nil, false, nil
		}
		entries = append(entries, GreenlightEntry{Child: child, Activities: activities})
	}
	if len(entries) == 0 {
		return nil, false, nil
	}
	return Greenlights{Day: day, Entries: entries}, true, nil
}
