package invitations

import (
	"strings"
	"testing"
)

func TestDedupeInvitees(t *testing.T) {
	proposed := []InviteeInput{
		{Name: "Ana", Email: "Ana@Example.com"},
		{Name: "Ana again", Email: "ana@example.com"}, // duplicate in batch after lowering
		{Name: "Bob", Email: "bob@example.com"},
		{Name: "Carol", Email: "carol@example.com"}, // already invited
		{Name: "Broken", Email: "not-an-email"},
	}
	existing := []string{"CAROL@example.com"}

	accepted, skipped := DedupeInvitees(proposed, existing)

	if len(accepted) != 2 {
		t.Fatalf("accepted = %d, want 2: %+v", len(accepted), accepted)
	}
	if accepted[0].Email != "ana@example.com" || accepted[1].Email != "bob@example.com" {
		t.Fatalf("unexpected accepted list: %+v", accepted)
	}

	if len(skipped) != 3 {
		t.Fatalf("skipped = %d, want 3: %+v", len(skipped), skipped)
	}
	reasons := map[string]string{}
	for _, s := range skipped {
		reasons[s.Email] = s.Reason
	}
	if reasons["ana@example.com"] != "Duplicate in request" {
		t.Fatalf("duplicate reason = %q", reasons["ana@example.com"])
	}
	if reasons["carol@example.com"] != "Already invited" {
		t.Fatalf("already-invited reason = %q", reasons["carol@example.com"])
	}
	if reasons["not-an-email"] != "Invalid email address" {
		t.Fatalf("invalid-email reason = %q", reasons["not-an-email"])
	}
}

func TestDedupeInviteesEmptyBatch(t *testing.T) {
	accepted, skipped := DedupeInvitees(nil, []string{"x@example.com"})
	if len(accepted) != 0 || len(skipped) != 0 {
		t.Fatalf("expected empty results, got %v / %v", accepted, skipped)
	}
}

func TestCapacityExceeded(t *testing.T) {
	// room capacity 10, organizer + 8 existing: inviting 2 overflows, 1 fits exactly
	if !CapacityExceeded(8, 2, 10) {
		t.Fatal("1+8+2=11 > 10 must exceed")
	}
	if CapacityExceeded(8, 1, 10) {
		t.Fatal("1+8+1=10 fits exactly, must not exceed")
	}
	if CapacityExceeded(0, 1, 2) {
		t.Fatal("organizer plus one invitee fits a 2-seat room")
	}
	if !CapacityExceeded(0, 2, 2) {
		t.Fatal("organizer plus two invitees overflows a 2-seat room")
	}
}

func TestCapacityMessageNamesNumbers(t *testing.T) {
	msg := CapacityMessage(8, 10, 2)
	for _, want := range []string{"8", "10", "2", "11"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("capacity message missing %q: %q", want, msg)
		}
	}
}

func TestCheckInPayloadRoundTrip(t *testing.T) {
	payload := CheckInPayload("inv123", "bk456")

	invID, bkID, err := VerifyCheckInPayload(payload)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if invID != "inv123" || bkID != "bk456" {
		t.Fatalf("got %s/%s", invID, bkID)
	}
}

func TestCheckInPayloadTamperDetected(t *testing.T) {
	payload := CheckInPayload("inv123", "bk456")
	tampered := strings.Replace(payload, "inv123", "inv999", 1)

	if _, _, err := VerifyCheckInPayload(tampered); err == nil {
		t.Fatal("tampered payload must fail verification")
	}
	if _, _, err := VerifyCheckInPayload("garbage"); err == nil {
		t.Fatal("malformed payload must fail verification")
	}
}
