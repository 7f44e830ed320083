package orders

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Prabhu-B-26/FreshCart/internal/domain/order"
)

// Receipt renders a plain-text receipt for mail and download.
func Receipt(o order.Order, customer string) string {
	var b strings.Builder
	b.WriteString("FreshCart - Order Receipt\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", o.ID)
	fmt.Fprintf(&b, "Customer: %s\n", customer)
	fmt.Fprintf(&b, "Date:     %s\n", o.CreatedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "Status:   %s\n\n", o.Status)

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Item\tQuantity\tUnit Price\tTotal\t")
	for _, it := range o.Items {
		fmt.Fprintf(tw, "%s\t%d\t$%s\t$%s\t\n", it.Name, it.Quantity, it.Price.StringFixed(2), it.LineTotal().StringFixed(2))
	}
	fmt.Fprintf(tw, "Total\t\t\t$%s\t\n", o.Total.StringFixed(2))
	_ = tw.Flush()
	return b.String()
}
