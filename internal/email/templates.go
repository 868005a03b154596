package email

import (
	"fmt"
	"strings"
)

// OrderLine is one snapshotted item rendered into the confirmation mail.
type OrderLine struct {
	Name      string
	Quantity  int
	UnitPrice int64
}

// BuildOrderConfirmationBody renders the plain-text confirmation body.
// Prices are in the smallest currency unit and rendered as decimal units.
func BuildOrderConfirmationBody(orderID string, total int64, items []OrderLine) string {
	var b strings.Builder
	b.WriteString("Thank you for your order!\n\n")
	fmt.Fprintf(&b, "Order number: %s\n\n", orderID)
	b.WriteString("Items:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "  %-24s x%-3d %10s\n",
			item.Name, item.Quantity, formatAmount(item.UnitPrice*int64(item.Quantity)))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", formatAmount(total))
	b.WriteString("\nThis is an automated message.\n")
	return b.String()
}

func formatAmount(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
