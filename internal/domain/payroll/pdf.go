package payroll

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// RenderPayslipPDF writes a printable payslip to w.
func RenderPayslipPDF(w io.Writer, slip Payslip, month, year int) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Payslip - %s %d", time.Month(month).String(), year))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", slip.EmployeeName))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s",
		slip.PayPeriodStart.Format("2006-01-02"), slip.PayPeriodEnd.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Attendance: %d days, Paid leave: %d days, Unpaid leave: %d days, Payable: %d days",
		slip.AttendanceDays, slip.PaidTimeOffDays, slip.UnpaidLeaveDays, slip.TotalPayableDays))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Earnings")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range slip.Earnings {
		pdf.Cell(120, 6, line.Component)
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", line.Amount), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Deductions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range slip.Deductions {
		pdf.Cell(120, 6, line.Component)
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", line.Amount), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(120, 8, "Gross Wage")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", slip.GrossWage), "", 0, "R", false, 0, "")
	pdf.Ln(7)
	pdf.Cell(120, 8, "Total Deductions")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", slip.TotalDeductions), "", 0, "R", false, 0, "")
	pdf.Ln(7)
	pdf.Cell(120, 8, "Net Wage")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", slip.NetWage), "", 0, "R", false, 0, "")

	return pdf.Output(w)
}
