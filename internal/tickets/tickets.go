package tickets

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"trattoria-order-service/internal/delivery"
	"trattoria-order-service/internal/kitchen"

	"github.com/phpdave11/gofpdf"
)

// The core PDF fonts only cover cp1252, so Polish letters are folded to ASCII.
var asciiFold = strings.NewReplacer(
	"ą", "a", "ć", "c", "ę", "e", "ł", "l", "ń", "n", "ó", "o", "ś", "s", "ź", "z", "ż", "z",
	"Ą", "A", "Ć", "C", "Ę", "E", "Ł", "L", "Ń", "N", "Ó", "O", "Ś", "S", "Ź", "Z", "Ż", "Z",
)

func fold(value string) string {
	return asciiFold.Replace(value)
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Filename builds an attachment name such as "kitchen-ticket-3.pdf".
func Filename(kind string, id int64) string {
	clean := strings.Trim(unsafeFilename.ReplaceAllString(kind, "_"), "_")
	return fmt.Sprintf("%s-%d.pdf", clean, id)
}

func newTicket(title string) *gofpdf.Fpdf {
	// 80mm roll, the usual kitchen printer width
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: 80, Ht: 200},
	})
	pdf.SetMargins(5, 5, 5)
	pdf.SetAutoPageBreak(true, 5)
	pdf.SetTitle(title, false)
	pdf.AddPage()
	return pdf
}

func output(pdf *gofpdf.Fpdf) (*bytes.Buffer, error) {
	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// KitchenTicket renders the order number, status and dish list. placedAt is optional.
func KitchenTicket(restaurant string, order kitchen.Order, placedAt string) (*bytes.Buffer, error) {
	pdf := newTicket(fmt.Sprintf("Kitchen ticket #%d", order.ID))

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 7, fold(restaurant), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Order #%d", order.ID), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, "Status: "+string(order.Status), "", 1, "C", false, 0, "")
	if placedAt != "" {
		pdf.CellFormat(0, 5, "Printed: "+placedAt, "", 1, "C", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Dishes", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, d := range order.Dishes {
		pdf.CellFormat(0, 6, fmt.Sprintf("%dx %s", d.Quantity, fold(d.Name)), "", 1, "L", false, 0, "")
	}

	return output(pdf)
}

// DeliverySlip renders the client, address and items for the driver.
func DeliverySlip(restaurant string, order delivery.Order) (*bytes.Buffer, error) {
	pdf := newTicket(fmt.Sprintf("Delivery slip #%d", order.ID))

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 7, fold(restaurant), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Delivery #%d", order.ID), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, "Status: "+string(order.Status), "", 1, "C", false, 0, "")
	if order.Delayed {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(0, 5, "DELAYED", "", 1, "C", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Client", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fold(order.Client.FullName()), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Phone: "+order.Client.Phone, "", 1, "L", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Address", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, line := range addressLines(order.Address) {
		pdf.MultiCell(0, 4, fold(line), "", "L", false)
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Items", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, item := range order.Items {
		pdf.CellFormat(0, 5, fmt.Sprintf("%dx %s", item.Quantity, fold(item.Name)), "", 1, "L", false, 0, "")
	}

	return output(pdf)
}

func addressLines(a delivery.Address) []string {
	building := a.BuildingNumber
	if a.ApartmentNumber != "" {
		building += "/" + a.ApartmentNumber
	}
	lines := []string{
		strings.TrimSpace(a.Street + " " + building),
		strings.TrimSpace(a.PostalCode + " " + a.City),
	}
	var extra []string
	if a.Floor != "" {
		extra = append(extra, "floor "+a.Floor)
	}
	if a.Staircase != "" {
		extra = append(extra, "staircase "+a.Staircase)
	}
	if len(extra) > 0 {
		lines = append(lines, strings.Join(extra, ", "))
	}
	if a.Notes != "" {
		lines = append(lines, "Notes: "+a.Notes)
	}
	return lines
}
