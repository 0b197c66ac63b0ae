package invitations

import (
	"fmt"

	"confhub/utils"
)

type InviteeInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SkippedInvitee struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// DedupeInvitees normalizes proposed invitee emails and filters out malformed
// addresses, duplicates within the batch, and addresses already invited.
// Skipped entries carry a per-entry reason for user feedback. Capacity
// arithmetic runs on the accepted list only.
func DedupeInvitees(proposed []InviteeInput, existing []string) ([]InviteeInput, []SkippedInvitee) {
	already := make(map[string]bool, len(existing))
	for _, e := range existing {
		already[utils.NormalizeEmail(e)] = true
	}

	accepted := []InviteeInput{}
	skipped := []SkippedInvitee{}
	inBatch := map[string]bool{}

	for _, p := range proposed {
		email := utils.NormalizeEmail(p.Email)
		switch {
		case !utils.IsValidEmail(email):
			skipped = append(skipped, SkippedInvitee{Email: p.Email, Reason: "Invalid email address"})
		case already[email]:
			skipped = append(skipped, SkippedInvitee{Email: email, Reason: "Already invited"})
		case inBatch[email]:
			skipped = append(skipped, SkippedInvitee{Email: email, Reason: "Duplicate in request"})
		default:
			inBatch[email] = true
			accepted = append(accepted, InviteeInput{Name: p.Name, Email: email})
		}
	}
	return accepted, skipped
}

// CapacityExceeded applies the headcount rule: organizer + existing
// invitations + new invitations must fit the room.
func CapacityExceeded(existingCount, newCount, capacity int) bool {
	return 1+existingCount+newCount > capacity
}

// CapacityMessage names the current count, the room capacity, and the
// attempted addition so the caller can adjust the batch.
func CapacityMessage(existingCount, capacity, requested int) string {
	return fmt.Sprintf(
		"Room capacity exceeded: organizer plus %d existing invitation(s) plus %d new invitee(s) is %d, but the room holds %d",
		existingCount, requested, 1+existingCount+requested, capacity)
}
