package reports

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	. "github.com/AbbasAlizada1380/mellat/internal/models"

	"github.com/divan/num2words"
	"github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"
)

const BILL_TEMPLATE = "bill"

//go:embed templates/*.html
var templatesFS embed.FS

// Bill is the view model of the printable fee receipt.
type Bill struct {
	Number        string
	IssuedOn      string
	AthleteName   string
	NicNumber     string
	StartDate     string
	EndDate       string
	Total         string
	Received      string
	Remained      string
	ReceivedWords string
	Settled       bool
}

func NewBill(fee Fee, issued time.Time) Bill {
	bill := Bill{
		Number:        fmt.Sprintf("%06d", fee.ID),
		IssuedOn:      issued.Format(DateLayout),
		StartDate:     fee.StartDate.String(),
		EndDate:       fee.EndDate.String(),
		Total:         fee.Total.StringFixed(MoneyPlaces),
		Received:      fee.Received.StringFixed(MoneyPlaces),
		Remained:      fee.Remained.StringFixed(MoneyPlaces),
		ReceivedWords: AmountInWords(fee.Received),
		Settled:       !fee.Remained.IsPositive(),
	}
	if fee.Athlete != nil {
		bill.AthleteName = fee.Athlete.FullName
		bill.NicNumber = fee.Athlete.NicNumber
	}
	return bill
}

// AmountInWords spells the whole part and appends the cents as digits.
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Round(MoneyPlaces)

	sign := ""
	if amount.IsNegative() {
		sign = "minus "
		amount = amount.Abs()
	}

	whole := amount.Truncate(0)
	cents := amount.Sub(whole).Shift(MoneyPlaces).IntPart()

	return fmt.Sprintf("%s%s and %02d/100", sign, num2words.Convert(int(whole.IntPart())), cents)
}

// Engine loads the embedded report templates for fiber's Views.
func Engine() *html.Engine {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}
