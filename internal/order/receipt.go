package order

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"go-storefront-proxy/internal/cart"
)

const (
	deliveryRowName = "Frais de livraison"
	modeDelivery    = "Livraison à domicile"
	modePickup      = "Je passe chercher"
)

// Formatter prints amounts the way the storefront shows them
type Formatter struct {
	printer  *message.Printer
	currency string
}

// NewFormatter creates a formatter for a BCP 47 language tag
func NewFormatter(lang, currency string) (*Formatter, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("invalid language %q: %w", lang, err)
	}
	return &Formatter{printer: message.NewPrinter(tag), currency: currency}, nil
}

// Price formats an amount with grouping and currency, e.g. "25 000 GNF"
func (f *Formatter) Price(amount int64) string {
	return f.printer.Sprintf("%d", amount) + " " + f.currency
}

// ReceiptRow is one billed line
type ReceiptRow struct {
	Name      string
	Quantity  int
	UnitPrice int64
}

// Amount returns quantity times unit price
func (r ReceiptRow) Amount() int64 {
	return int64(r.Quantity) * r.UnitPrice
}

// Receipt is the printable form of a snapshot
type Receipt struct {
	OrderID string
	Date    string
	Mode    string
	Rows    []ReceiptRow
	Total   int64
}

// Receipt builds the printable receipt. Delivery adds a fee row.
func (s *Service) Receipt(snapshot *Snapshot) *Receipt {
	receipt := &Receipt{
		OrderID: snapshot.ID,
		Date:    snapshot.Date.Local().Format("02/01/2006 15:04:05"),
		Mode:    modePickup,
		Total:   snapshot.Total,
	}

	for _, item := range snapshot.Items {
		receipt.Rows = append(receipt.Rows, ReceiptRow{
			Name:      item.DisplayName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	if snapshot.Delivery {
		receipt.Mode = modeDelivery
		fee := s.deliveryFee
		if snapshot.DeliveryFee != nil {
			fee = *snapshot.DeliveryFee
		}
		receipt.Rows = append(receipt.Rows, ReceiptRow{Name: deliveryRowName, Quantity: 1, UnitPrice: fee})
	}
	return receipt
}

// Render writes the receipt as an aligned text table
func (r *Receipt) Render(w io.Writer, f *Formatter) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if r.OrderID != "" {
		fmt.Fprintf(tw, "Commande:\t%s\n", r.OrderID)
	}
	fmt.Fprintf(tw, "Date:\t%s\n", r.Date)
	fmt.Fprintf(tw, "Mode:\t%s\n\n", r.Mode)

	fmt.Fprintln(tw, "Article\tQté\tPrix unitaire\tMontant")
	for _, row := range r.Rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", row.Name, row.Quantity, f.Price(row.UnitPrice), f.Price(row.Amount()))
	}
	fmt.Fprintf(tw, "\nTotal facture:\t\t\t%s\n", f.Price(r.Total))

	return tw.Flush()
}

// ContactMessage is the order text sent to the shop
func ContactMessage(items []cart.LineItem, total int64, delivery bool, fee int64, f *Formatter) string {
	var b strings.Builder

	b.WriteString("Bonjour, je suis intéressé par ces articles:\n\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.DisplayName)
		fmt.Fprintf(&b, "   Quantité: %d\n", item.Quantity)
		fmt.Fprintf(&b, "   Prix: %s\n\n", f.Price(item.UnitPrice))
	}

	fmt.Fprintf(&b, "*Total des articles:* %s\n", f.Price(total))
	final := total
	mode := modePickup
	if delivery {
		fmt.Fprintf(&b, "*%s:* %s\n", deliveryRowName, f.Price(fee))
		final += fee
		mode = modeDelivery
	}
	fmt.Fprintf(&b, "*Total final:* %s\n\n", f.Price(final))
	fmt.Fprintf(&b, "*Option:* %s", mode)

	return b.String()
}
