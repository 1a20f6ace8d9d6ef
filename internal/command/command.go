// Package command turns one line or block of chat text into exactly
// one typed command from a closed grammar, or no match at all.
package command

// Command is one parsed chat command. The concrete type tells the
// dispatcher where to route it.
type Command interface {
	commandKind() string
}

// RideTicket is the six-field "•"-separated pickup announcement.
type RideTicket struct {
	Who       string
	ReadyTime string
	Location  string
	Event     string
	EndTime   string
	Gear      string
	Contact   string
}

// ApprovalReceipt is a parent's "OK —" reply approving a ride and
// spending tokens.
type ApprovalReceipt struct {
	Kid            string
	Title          string
	Start          string
	End            string
	Tokens         int
	PickupLocation string
	Date           string
}

// JugUpdate is "/jug <n> <status>".
type JugUpdate struct {
	Jug    int
	Status string
}

// WaterQuery is the bare "/water" supply check.
type WaterQuery struct{}

// SprintStart is "/sprint <revenue|fulfill> <target>".
type SprintStart struct {
	Kind   string
	Target float64
}

// SaleLogged is "/sold <amount> <product> #<channel>".
type SaleLogged struct {
	AmountCents int64
	Product     string
	Channel     string
}

// GreenlightEntry is one child's cleared activities inside a
// Greenlights post.
type GreenlightEntry struct {
	Child      string
	Activities string
}

// Greenlights is the daily "Greenlights <Day> — Child: ..." post.
type Greenlights struct {
	Day     string
	Entries []GreenlightEntry
}

func (RideTicket) commandKind() string      { return "ride_ticket" }
func (ApprovalReceipt) commandKind() string { return "approval_receipt" }
func (JugUpdate) commandKind() string       { return "jug_update" }
func (WaterQuery) commandKind() string      { return "water_query" }
func (SprintStart) commandKind() string     { return "sprint_start" }
func (SaleLogged) commandKind() string      { return "sale_logged" }
func (Greenlights) commandKind() string     { return "greenlights" }
