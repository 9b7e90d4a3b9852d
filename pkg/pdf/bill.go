package pdf

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/WinsonMARS/hospitalmanagement/internal/model"
)

// RenderBill renders a discharge record as a one-page A4 invoice.
func RenderBill(record *model.DischargeRecord) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Discharge Bill", false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, "Hospital Discharge Bill", "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 11)
	details := [][2]string{
		{"Patient", record.PatientName},
		{"Doctor", record.AssignedDoctorName},
		{"Address", record.Address},
		{"Mobile", record.Mobile},
		{"Symptoms", record.Symptoms},
		{"Admitted", record.AdmitDate.Format("2006-01-02")},
		{"Released", record.ReleaseDate.Format("2006-01-02")},
		{"Days spent", strconv.Itoa(record.DaySpent)},
	}
	for _, row := range details {
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(40, 8, row[0], "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		doc.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}
	doc.Ln(6)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(120, 9, "Charge", "B", 0, "L", false, 0, "")
	doc.CellFormat(0, 9, "Amount", "B", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 11)
	charges := []struct {
		label  string
		amount int
	}{
		{fmt.Sprintf("Room charge (%d days)", record.DaySpent), record.RoomCharge * record.DaySpent},
		{"Doctor fee", record.DoctorFee},
		{"Medicine cost", record.MedicineCost},
		{"Other charges", record.OtherCharge},
	}
	for _, c := range charges {
		doc.CellFormat(120, 8, c.label, "", 0, "L", false, 0, "")
		doc.CellFormat(0, 8, strconv.Itoa(c.amount), "", 1, "R", false, 0, "")
	}

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(120, 10, "Total", "T", 0, "L", false, 0, "")
	doc.CellFormat(0, 10, strconv.Itoa(record.Total), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render bill: %w", err)
	}
	return buf.Bytes(), nil
}
