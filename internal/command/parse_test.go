package command

import (
	"errors"
	"reflect"
	"testing"

	pkgerr "github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
)

func TestParseRideTicket(t *testing.T) {
	cases := []struct {
		name string
		text string
		want RideTicket
	}{
		{
			name: "six_fields_with_end_time",
			text: "Zoey • 15:30 • school gate • soccer practice + 17:00 • cleats and water • dad cell",
			want: RideTicket{
				Who:       "Zoey",
				ReadyTime: "15:30",
				Location:  "school gate",
				Event:     "soccer practice",
				EndTime:   "17:00",
				Gear:      "cleats and water",
				Contact:   "dad cell",
			},
		},
		{
			name: "six_fields_no_end_time",
			text: "Levi • 08:00 • home • dentist • nothing • mom",
			want: RideTicket{
				Who:       "Levi",
				ReadyTime: "08:00",
				Location:  "home",
				Event:     "dentist",
				EndTime:   "",
				Gear:      "nothing",
				Contact:   "mom",
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := Parse(tc.text)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tc.text, err)
			}
			got, ok := cmd.(RideTicket)
			if !ok {
				t.Fatalf("Parse(%q) = %T, want RideTicket", tc.text, cmd)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Parse(%q) = %+v, want %+v", tc.text, got, tc.want)
			}
		})
	}
}

func TestParseRideTicketWrongFieldCount(t *testing.T) {
	cases := []string{
		"Zoey • 15:30 • school gate",
		"a • b • c • d • e • f • g",
		"one field only",
		"a • b • c • d • e",
	}
	for _, text := range cases {
		cmd, err := Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", text, err)
		}
		if _, ok := cmd.(RideTicket); ok {
			t.Fatalf("Parse(%q) matched RideTicket, want no match", text)
		}
	}
}

func TestParseApprovalReceipt(t *testing.T) {
	cmd, err := Parse("OK — Amos: Soccer | 15:00–17:00 | 2 tokens | Park | today")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	got, ok := cmd.(ApprovalReceipt)
	if !ok {
		t.Fatalf("Parse = %T, want ApprovalReceipt", cmd)
	}
	want := ApprovalReceipt{
		Kid:            "Amos",
		Title:          "Soccer",
		Start:          "15:00",
		End:            "17:00",
		Tokens:         2,
		PickupLocation: "Park",
		Date:           "today",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseApprovalReceiptDefaults(t *testing.T) {
	cmd, err := Parse("OK — Zoey: Dentist | 09:00–10:00 | a token | Main St | 2026-09-02")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	got := cmd.(ApprovalReceipt)
	if got.Tokens != 1 {
		t.Fatalf("Tokens = %d, want default 1", got.Tokens)
	}
	if got.Date != "2026-09-02" {
		t.Fatalf("Date = %q, want passthrough", got.Date)
	}
}

func TestParseApprovalReceiptTooFewParts(t *testing.T) {
	cmd, err := Parse("OK — Amos: Soccer | 15:00–17:00 | 2 tokens")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cmd != nil {
		t.Fatalf("Parse = %T, want no match", cmd)
	}
}

func TestParseJugUpdate(t *testing.T) {
	cmd, err := Parse("/jug 3 full")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	got, ok := cmd.(JugUpdate)
	if !ok {
		t.Fatalf("Parse = %T, want JugUpdate", cmd)
	}
	if got.Jug != 3 || got.Status != "full" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseJugUpdateValidation(t *testing.T) {
	cases := []string{
		"/jug 7 full",
		"/jug 0 empty",
		"/jug 3 leaking",
		"/jug three full",
		"/jug 3",
	}
	for _, text := range cases {
		_, err := Parse(text)
		if !errors.Is(err, pkgerr.ErrValidation) {
			t.Fatalf("Parse(%q) err = %v, want ErrValidation", text, err)
		}
	}
}

func TestParseWaterQuery(t *testing.T) {
	cmd, err := Parse("/water")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if _, ok := cmd.(WaterQuery); !ok {
		t.Fatalf("Parse = %T, want WaterQuery", cmd)
	}
}

func TestParseSprintStart(t *testing.T) {
	cmd, err := Parse("/sprint revenue 500")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	got := cmd.(SprintStart)
	if got.Kind != "revenue" || got.Target != 500 {
		t.Fatalf("got %+v", got)
	}

	if _, err := Parse("/sprint speed 10"); !errors.Is(err, pkgerr.ErrValidation) {
		t.Fatalf("bad kind err = %v, want ErrValidation", err)
	}
	if _, err := Parse("/sprint revenue -3"); !errors.Is(err, pkgerr.ErrValidation) {
		t.Fatalf("negative target err = %v, want ErrValidation", err)
	}
}

func TestParseSaleLogged(t *testing.T) {
	cmd, err := Parse("/sold $12.50 friendship bracelets #market")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	got := cmd.(SaleLogged)
	want := SaleLogged{AmountCents: 1250, Product: "friendship bracelets", Channel: "market"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if _, err := Parse("/sold bracelets #market"); !errors.Is(err, pkgerr.ErrValidation) {
		t.Fatalf("missing amount err = %v, want ErrValidation", err)
	}
}

func TestParseGreenlights(t *testing.T) {
	cmd, err := Parse("Greenlights Tuesday — Zoey: soccer, library | Levi: chess club")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	got := cmd.(Greenlights)
	want := Greenlights{
		Day: "Tuesday",
		Entries: []GreenlightEntry{
			{Child: "Zoey", Activities: "soccer, library"},
			{Child: "Levi", Activities: "chess club"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseUnmatchedTextProducesNothing(t *testing.T) {
	cases := []string{
		"hello everyone",
		"ok, sounds good",
		"what time is dinner?",
		"",
	}
	for _, text := range cases {
		cmd, err := Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", text, err)
		}
		if cmd != nil {
			t.Fatalf("Parse(%q) = %T, want nil", text, cmd)
		}
	}
}

func TestPriorityOrderFirstMatchWins(t *testing.T) {
	// Six bullet fields that also start with "OK —" must parse as a
	// ride ticket, not an approval receipt.
	text := "OK — hi • a • b • c • d • e"
	cmd, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if _, ok := cmd.(RideTicket); !ok {
		t.Fatalf("Parse = %T, want RideTicket by priority", cmd)
	}
}
