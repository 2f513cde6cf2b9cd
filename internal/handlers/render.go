package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"
	"time"

	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/pkg/listing"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var pageNames = []string{
	"home", "cart", "login", "error",
	"customers", "customer_orders",
	"exchanges", "exchange_detail",
	"product",
	"warehouse", "warehouse_history",
	"activity",
}

// Renderer holds one template set per page, each combined with the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.gohtml", "templates/"+name+".gohtml")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Instance implements gin's render.HTMLRender.
func (r *Renderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.pages[name]
	if !ok {
		tmpl = r.pages["error"]
		data = page{Title: "Error", Data: fmt.Sprintf("unknown page %q", name)}
	}
	return render.HTML{Template: tmpl, Name: "layout", Data: data}
}

var templateFuncs = template.FuncMap{
	"money":       formatMoney,
	"date":        formatDate,
	"dateInput":   formatDateInput,
	"statusLabel": statusLabel,
	"nextStatuses": func(s domain.OrderStatus) []domain.OrderStatus {
		return domain.NextStatuses(s)
	},
	"queryURL": func(path string, q listing.Query) string {
		return path + "?" + q.Values().Encode()
	},
	"pageURL": func(path string, q listing.Query, page int) string {
		return path + "?" + q.WithPage(page).Values().Encode()
	},
	"sortURL": func(path string, q listing.Query, key string) string {
		desc := q.SortBy == key && !q.Desc
		q.SortBy, q.Desc, q.Page = key, desc, 1
		return path + "?" + q.Values().Encode()
	},
}

// formatMoney renders whole dong with thousands separators, e.g. 150,000 ₫.
func formatMoney(v float64) string {
	n := int64(math.Round(v))
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String() + " ₫"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("02/01/2006 15:04")
}

func formatDateInput(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

var statusLabels = map[domain.OrderStatus]string{
	domain.StatusReturnRequested:   "Return requested",
	domain.StatusReturnApproved:    "Return approved",
	domain.StatusReturnCompleted:   "Return completed",
	domain.StatusReturnRejected:    "Return rejected",
	domain.StatusExchangeRequested: "Exchange requested",
	domain.StatusExchangeApproved:  "Exchange approved",
	domain.StatusExchangeCompleted: "Exchange completed",
	domain.StatusExchangeRejected:  "Exchange rejected",
}

func statusLabel(s domain.OrderStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}
