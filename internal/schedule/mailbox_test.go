package schedule

import (
	"encoding/json"
	"strings"
	"testing"
)

func newTestMailbox(values map[CellKey]string) (*Mailbox, *Store) {
	store := NewStore()
	store.Load(values)
	return NewMailbox(store, "Anna"), store
}

func TestMailbox_ComposeSwapReadsLiveShifts(t *testing.T) {
	mine := CellKey{Date: "2026-08-10", Employee: "Anna"}
	theirs := CellKey{Date: "2026-08-12", Employee: "Beata"}
	mailbox, store := newTestMailbox(map[CellKey]string{mine: "D", theirs: "N"})

	// An edit between form-open and submit must be reflected.
	store.SetValue(mine, "P 10-22")

	payload, err := mailbox.Compose(RequestInput{
		Kind:       KindSwap,
		FromDate:   mine.Date,
		ToEmployee: "Beata",
		ToDate:     theirs.Date,
	})
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if payload.FromShift == nil || *payload.FromShift != "P 10-22" {
		t.Fatalf("FromShift = %v, want live value P 10-22", payload.FromShift)
	}
	if payload.ToShift == nil || *payload.ToShift != "N" {
		t.Fatalf("ToShift = %v, want N", payload.ToShift)
	}
	if payload.IsGiveRequest || payload.IsAskRequest {
		t.Fatalf("payload flags = %+v, want plain swap", payload)
	}
}

func TestMailbox_GiveEncodesNullTargetSide(t *testing.T) {
	mine := CellKey{Date: "2026-08-10", Employee: "Anna"}
	target := CellKey{Date: "2026-08-10", Employee: "Beata"}
	mailbox, _ := newTestMailbox(map[CellKey]string{mine: "D", target: ""})

	payload, err := mailbox.Compose(RequestInput{
		Kind:       KindGive,
		FromDate:   mine.Date,
		ToEmployee: "Beata",
	})
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	body := string(encoded)
	for _, want := range []string{`"to_date":null`, `"to_shift":null`, `"is_give_request":true`, `"from_shift":"D"`} {
		if !strings.Contains(body, want) {
			t.Errorf("payload %s missing %s", body, want)
		}
	}
}

func TestMailbox_TakeEncodesEmptyRequesterSide(t *testing.T) {
	theirs := CellKey{Date: "2026-08-12", Employee: "Beata"}
	mine := CellKey{Date: "2026-08-12", Employee: "Anna"}
	mailbox, _ := newTestMailbox(map[CellKey]string{theirs: "N", mine: ""})

	payload, err := mailbox.Compose(RequestInput{
		Kind:       KindTake,
		ToEmployee: "Beata",
		ToDate:     theirs.Date,
	})
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	body := string(encoded)
	// The requester side is explicitly empty, not null.
	for _, want := range []string{`"from_date":""`, `"from_shift":""`, `"is_ask_request":true`, `"to_shift":"N"`} {
		if !strings.Contains(body, want) {
			t.Errorf("payload %s missing %s", body, want)
		}
	}
}

func TestMailbox_SelfTargetRejected(t *testing.T) {
	mailbox, _ := newTestMailbox(nil)
	for _, kind := range []RequestKind{KindSwap, KindGive, KindTake} {
		_, err := mailbox.Compose(RequestInput{Kind: kind, ToEmployee: "Anna", FromDate: "2026-08-10", ToDate: "2026-08-12"})
		if err == nil {
			t.Errorf("%s request to self accepted", kind)
		}
	}
}

func TestMailbox_GiveRejectsBusyTarget(t *testing.T) {
	mine := CellKey{Date: "2026-08-10", Employee: "Anna"}
	target := CellKey{Date: "2026-08-10", Employee: "Beata"}
	mailbox, _ := newTestMailbox(map[CellKey]string{mine: "D", target: "N"})

	_, err := mailbox.Compose(RequestInput{Kind: KindGive, FromDate: mine.Date, ToEmployee: "Beata"})
	if err == nil {
		t.Fatal("give to an already-working employee accepted")
	}
}

func TestMailbox_TakeRejectsWhenRequesterBusy(t *testing.T) {
	theirs := CellKey{Date: "2026-08-12", Employee: "Beata"}
	mine := CellKey{Date: "2026-08-12", Employee: "Anna"}
	mailbox, _ := newTestMailbox(map[CellKey]string{theirs: "N", mine: "D"})

	_, err := mailbox.Compose(RequestInput{Kind: KindTake, ToEmployee: "Beata", ToDate: theirs.Date})
	if err == nil {
		t.Fatal("take accepted while the requester already works that day")
	}
}

func TestMailbox_DateOccupiedSkipsResolved(t *testing.T) {
	mailbox, _ := newTestMailbox(nil)
	mailbox.SetItems([]RequestItem{
		{FromDate: "2026-08-10", FromEmployee: "Anna", FinalStatus: "OCZEKUJACE"},
		{FromDate: "2026-08-11", FromEmployee: "Anna", FinalStatus: "ODRZUCONA"},
		{ToDate: "2026-08-12", ToEmployee: "Beata", RecipientStatus: StatusRejected},
	})

	if !mailbox.DateOccupied("2026-08-10", "Anna") {
		t.Fatal("pending request not treated as occupying")
	}
	if mailbox.DateOccupied("2026-08-11", "Anna") {
		t.Fatal("rejected request treated as occupying")
	}
	if mailbox.DateOccupied("2026-08-12", "Beata") {
		t.Fatal("recipient-declined request treated as occupying")
	}
}

func TestMailbox_ActionsFor(t *testing.T) {
	mailbox, _ := newTestMailbox(nil)

	addressedToMe := RequestItem{ToEmployee: "Anna", RecipientStatus: StatusPending, BossStatus: StatusPending}
	actions := mailbox.ActionsFor(addressedToMe, false)
	if len(actions) != 2 || actions[0] != ActionAccept || actions[1] != ActionDecline {
		t.Fatalf("recipient actions = %v, want accept+decline", actions)
	}

	// Boss sees approval buttons on top of any recipient ones.
	actions = mailbox.ActionsFor(addressedToMe, true)
	if len(actions) != 4 {
		t.Fatalf("boss actions = %v, want all four", actions)
	}

	resolved := RequestItem{ToEmployee: "Anna", RecipientStatus: StatusApproved, BossStatus: StatusApproved}
	if actions := mailbox.ActionsFor(resolved, true); len(actions) != 0 {
		t.Fatalf("resolved item actions = %v, want none", actions)
	}

	someoneElse := RequestItem{ToEmployee: "Beata", RecipientStatus: StatusPending, BossStatus: StatusPending}
	if actions := mailbox.ActionsFor(someoneElse, false); len(actions) != 0 {
		t.Fatalf("bystander actions = %v, want none", actions)
	}
}

func TestComposeUnavailability(t *testing.T) {
	payload, err := ComposeUnavailability("2026-08", []int{3, 14}, "wedding")
	if err != nil {
		t.Fatalf("ComposeUnavailability error: %v", err)
	}
	if payload.MonthYear != "2026-08" || len(payload.SelectedDays) != 2 {
		t.Fatalf("payload = %+v", payload)
	}

	if _, err := ComposeUnavailability("", []int{1}, ""); err == nil {
		t.Fatal("missing month accepted")
	}
	if _, err := ComposeUnavailability("2026-08", nil, ""); err == nil {
		t.Fatal("empty day list accepted")
	}
	if _, err := ComposeUnavailability("2026-08", []int{0}, ""); err == nil {
		t.Fatal("day 0 accepted")
	}
	if _, err := ComposeUnavailability("2026-08", []int{32}, ""); err == nil {
		t.Fatal("day 32 accepted")
	}
}
