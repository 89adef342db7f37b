package orders

import (
	"encoding/csv"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.Ukrainian)

// WriteCSV serialises an order listing to CSV. Amounts are rendered in
// major units with locale-aware digit grouping.
func WriteCSV(w io.Writer, orders []Order) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Document", "Type", "Date", "Counterparty", "Status", "Total"}); err != nil {
		return err
	}
	for _, o := range orders {
		record := []string{
			o.DocNumber,
			string(o.Type),
			o.OrderDate.Format("2006-01-02"),
			o.CounterpartyName,
			string(o.Status),
			formatAmount(o.TotalCents),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatAmount(cents int64) string {
	return amountPrinter.Sprintf("%.2f", float64(cents)/100)
}
