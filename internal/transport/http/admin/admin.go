package admin

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/csv"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/miniflavors/checkout/internal/config"
	"github.com/miniflavors/checkout/internal/service/models/order"
)

// service is an interface for the service layer.
type service interface {
	ListOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
}

// BasicAuth guards the admin surface with the shared credential pair.
// The comparison is constant time so credential length and prefix never
// leak through response timing.
func BasicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds := config.Admin()
		if !creds.Configured() {
			http.Error(w, "admin access is not configured", http.StatusServiceUnavailable)

			return
		}

		user, password, ok := r.BasicAuth()
		if !ok || !equalConstantTime(user, creds.User) || !equalConstantTime(password, creds.Password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="checkout-admin"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func equalConstantTime(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))

	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}

var listTemplate = template.Must(template.New("orders").Funcs(template.FuncMap{
	"itemsSummary": ItemsSummary,
}).Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Pedidos - Mini Flavors</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; }
th { background: #f3f3f3; }
</style>
</head>
<body>
<h1>Pedidos</h1>
<p>
<a href="?sort=recent">Recientes</a> |
<a href="?sort=name">Por nombre</a> |
<a href="?sort={{.Sort}}&amp;format=csv">Exportar CSV</a>
</p>
<table>
<tr>
<th>Referencia</th><th>Nombre</th><th>Correo</th><th>Telefono</th>
<th>Direccion</th><th>Metodo</th><th>Total</th><th>Productos</th><th>Fecha</th>
</tr>
{{range .Orders}}
<tr>
<td>{{.Referencia}}</td>
<td>{{.Nombre}}</td>
<td>{{.Correo}}</td>
<td>{{.Telefono}}</td>
<td>{{.Direccion}}</td>
<td>{{.MetodoPago}}</td>
<td>{{.Total}}</td>
<td>{{itemsSummary .}}</td>
<td>{{.CreatedAt.Format "02/01/2006 15:04"}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

type listPage struct {
	Sort   order.SortMode
	Orders []order.Order
}

// ListOrders serves the admin listing as HTML, or as CSV when
// format=csv is requested.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	filter := order.QueryOrdersModel{
		Sort: order.SortMode(r.URL.Query().Get("sort")),
	}.Normalize()

	orders, err := service.ListOrders(r.Context(), filter)
	if err != nil {
		slog.Error("Error listing orders", "error", err)
		http.Error(w, "failed to list orders", http.StatusInternalServerError)

		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, orders)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := listTemplate.Execute(w, listPage{Sort: filter.Sort, Orders: orders}); err != nil {
		slog.Error("Error rendering order listing", "error", err)
	}
}

func writeCSV(w http.ResponseWriter, orders []order.Order) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="pedidos.csv"`)

	cw := csv.NewWriter(w)
	record := []string{
		"referencia", "nombre", "correo", "telefono", "direccion",
		"notas", "metodoPago", "monto", "total", "productos", "fecha",
	}
	if err := cw.Write(record); err != nil {
		slog.Error("Error writing CSV header", "error", err)

		return
	}

	for _, o := range orders {
		record = []string{
			o.Referencia,
			o.Nombre,
			o.Correo,
			o.Telefono,
			o.Direccion,
			o.Notas,
			o.MetodoPago,
			o.Monto,
			o.Total,
			ItemsSummary(o),
			o.CreatedAt.Format("02/01/2006 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			slog.Error("Error writing CSV row", "error", err)

			return
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.Error("Error flushing CSV", "error", err)
	}
}

// ItemsSummary renders an order's items as one display cell.
func ItemsSummary(o order.Order) string {
	if len(o.Items) == 0 {
		return "Sin productos"
	}

	parts := make([]string, len(o.Items))
	for i, item := range o.Items {
		parts[i] = fmt.Sprintf("%s x%d (%s)", item.Titulo, item.Cantidad, item.Precio)
	}

	return strings.Join(parts, "; ")
}
