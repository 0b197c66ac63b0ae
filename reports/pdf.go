package reports

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"confhub/db"
	"confhub/invitations"
	"confhub/models"
	"confhub/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// BookingPDF handles GET /api/reports/bookings/:bookingid/pdf — a printable
// confirmation sheet with one check-in QR code per invitee.
func BookingPDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("bookingid")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var booking models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}
	var room models.Room
	if err := db.RoomsCollection.FindOne(ctx, bson.M{"id": booking.RoomID}).Decode(&room); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Room not found")
		return
	}

	cur, err := db.InvitationsCollection.Find(ctx, bson.M{"bookingId": bookingID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)
	var invites []models.MeetingInvitation
	if err := cur.All(ctx, &invites); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 15, "Booking Confirmation", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Title: %s", booking.Title), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Room: %s (capacity %d)", room.Name, room.Capacity), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Start: %s", booking.StartTime.Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("End:   %s", booking.EndTime.Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Status: %s", booking.Status), "", 1, "L", false, 0, "")
	if booking.RejectionReason != "" {
		pdf.CellFormat(0, 8, fmt.Sprintf("Note: %s", booking.RejectionReason), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	if len(invites) > 0 {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, "Invitees", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)

		for _, inv := range invites {
			qrPNG, err := qrcode.Encode(invitations.CheckInPayload(inv.ID, bookingID), qrcode.Medium, 128)
			if err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
				return
			}
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			imgName := "qr-" + inv.ID
			pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPNG))

			y := pdf.GetY()
			pdf.ImageOptions(imgName, 20, y, 22, 22, false, opts, 0, "")
			pdf.SetXY(46, y+4)
			pdf.CellFormat(0, 6, fmt.Sprintf("%s <%s>", inv.InviteeName, inv.InviteeEmail), "", 1, "L", false, 0, "")
			pdf.SetX(46)
			pdf.CellFormat(0, 6, fmt.Sprintf("RSVP: %s", inv.RSVPStatus), "", 1, "L", false, 0, "")
			pdf.SetY(y + 26)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to render PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=booking-%s.pdf", bookingID))
	w.Write(buf.Bytes())
}

// FacilityUsagePDF handles GET /api/reports/facilities/:facilityid/usage with
// optional start/end date filters (2006-01-02). Counts bookings per room by
// status over the range.
func FacilityUsagePDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	facilityID := ps.ByName("facilityid")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var facility models.Facility
	if err := db.FacilitiesCollection.FindOne(ctx, bson.M{"id": facilityID}).Decode(&facility); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Facility not found")
		return
	}

	roomCur, err := db.RoomsCollection.Find(ctx, bson.M{"facilityId": facilityID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer roomCur.Close(ctx)
	var rooms []models.Room
	if err := roomCur.All(ctx, &rooms); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	rangeFilter := bson.M{}
	rangeLabel := "all time"
	if startStr := r.URL.Query().Get("start"); startStr != "" {
		if start, err := time.Parse("2006-01-02", startStr); err == nil {
			rangeFilter["$gte"] = start
			rangeLabel = "from " + startStr
		}
	}
	if endStr := r.URL.Query().Get("end"); endStr != "" {
		if end, err := time.Parse("2006-01-02", endStr); err == nil {
			rangeFilter["$lt"] = end.AddDate(0, 0, 1)
			rangeLabel += " to " + endStr
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, fmt.Sprintf("Usage Report: %s", facility.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 8, fmt.Sprintf("Range: %s", rangeLabel), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(60, 8, "Room", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Pending", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Confirmed", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Cancelled", "1", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)

	for _, room := range rooms {
		counts := map[string]int64{}
		for _, status := range []string{models.BookingPending, models.BookingConfirmed, models.BookingCancelled} {
			filter := bson.M{"roomId": room.ID, "status": status}
			if len(rangeFilter) > 0 {
				filter["startTime"] = rangeFilter
			}
			n, err := db.BookingsCollection.CountDocuments(ctx, filter)
			if err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, "db error")
				return
			}
			counts[status] = n
		}
		pdf.CellFormat(60, 8, room.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", counts[models.BookingPending]), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", counts[models.BookingConfirmed]), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", counts[models.BookingCancelled]), "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to render PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=usage-%s.pdf", facilityID))
	w.Write(buf.Bytes())
}
