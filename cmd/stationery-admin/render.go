package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/campusprint/stationery-admin/internal/core/domain"
	"github.com/campusprint/stationery-admin/internal/core/service"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	labelStyle  = lipgloss.NewStyle().Bold(true).Width(16)
)

const timeLayout = "2006-01-02 15:04"

func renderTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("(nothing to show)"))
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

// renderFields prints label/value pairs one per line.
func renderFields(w io.Writer, pairs ...[2]string) {
	for _, p := range pairs {
		fmt.Fprintln(w, labelStyle.Render(p[0])+p[1])
	}
}

func field(label, value string) [2]string { return [2]string{label, value} }

func renderOrders(w io.Writer, orders []domain.Order, seen func(domain.OrderID) bool) {
	rows := make([][]string, len(orders))
	for i, o := range orders {
		rows[i] = []string{
			newMark(seen, o.OrderID) + "#" + o.OrderID.String(),
			o.UserName,
			o.ItemName,
			strconv.Itoa(o.Quantity),
			o.Cost,
			o.OrderTime.Local().Format(timeLayout),
		}
	}
	renderTable(w, []string{"ID", "Student", "Item", "Qty", "Cost", "Ordered"}, rows)
}

func renderPrintouts(w io.Writer, printouts []domain.Printout, seen func(domain.OrderID) bool) {
	rows := make([][]string, len(printouts))
	for i, p := range printouts {
		rows[i] = []string{
			newMark(seen, p.OrderID) + "#" + p.OrderID.String(),
			p.UserName,
			strconv.Itoa(p.TotalPages()),
			sides(p.PrintOnOneSide),
			p.Cost,
			p.OrderTime.Local().Format(timeLayout),
		}
	}
	renderTable(w, []string{"ID", "Student", "Pages", "Sides", "Cost", "Ordered"}, rows)
}

func renderItems(w io.Writer, items []domain.Item) {
	rows := make([][]string, len(items))
	for i, it := range items {
		stock := "in stock"
		if !it.InStock {
			stock = "out of stock"
		}
		rows[i] = []string{strconv.FormatInt(it.ID, 10), it.Item, it.Price, stock}
	}
	renderTable(w, []string{"ID", "Item", "Price", "Stock"}, rows)
}

func renderOrderDetail(w io.Writer, d *domain.OrderDetail) {
	renderFields(w,
		field("Order", "#"+d.OrderID.String()),
		field("Status", status(d.IsCompleted)),
		field("Student", d.UserName),
		field("Email", d.UserEmail),
		field("Phone", d.UserNumber),
		field("Item", d.ItemName),
		field("Unit price", d.ItemPrice),
		field("Quantity", strconv.Itoa(d.Quantity)),
		field("Cost", d.Cost),
		field("Ordered", d.OrderTime.Local().Format(timeLayout)),
		field("Message", orDash(d.CustomMessage)),
	)
}

func renderPrintoutDetail(w io.Writer, d *domain.PrintoutDetail) {
	file := "-"
	if d.File != nil {
		file = *d.File
	}
	renderFields(w,
		field("Printout", "#"+d.OrderID.String()),
		field("Status", status(d.IsCompleted)),
		field("Student", d.UserName),
		field("Email", d.UserEmail),
		field("Phone", d.UserNumber),
		field("Colour pages", orDash(string(d.ColouredPages))),
		field("B/W pages", orDash(string(d.BlackAndWhitePages))),
		field("Total pages", strconv.Itoa(d.TotalPages)),
		field("Sides", sides(d.PrintOnOneSide)),
		field("Cost", d.Cost),
		field("Ordered", d.OrderTime.Local().Format(timeLayout)),
		field("Message", orDash(d.CustomMessage)),
		field("File", file),
	)
}

func renderDashboard(w io.Writer, d *service.Dashboard) {
	renderFields(w,
		field("New today", strconv.Itoa(d.Stats.NewOrdersCount)),
		field("Revenue today", strconv.FormatFloat(d.Stats.TotalRevenueToday, 'f', 2, 64)),
		field("Completed today", strconv.Itoa(d.Stats.CompletedOrdersCount)),
		field("Active orders", strconv.Itoa(d.Stats.ActiveOrdersCount)),
		field("Active prints", strconv.Itoa(d.Stats.ActivePrintoutsCount)),
	)
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Active orders"))
	renderOrders(w, d.ActiveOrders, nil)
	fmt.Fprintln(w, headerStyle.Render("Active printouts"))
	renderPrintouts(w, d.ActivePrintouts, nil)
}

func renderIdentity(w io.Writer, id *domain.Identity, expires time.Time) {
	pairs := [][2]string{
		field("Name", id.Name),
		field("Email", id.Email),
		field("Phone", id.Number),
		field("Role", id.Role),
	}
	if !expires.IsZero() {
		pairs = append(pairs, field("Access expires", expires.Local().Format(time.RFC1123)))
	}
	renderFields(w, pairs...)
}

// newMark flags rows not yet opened in this session.
func newMark(seen func(domain.OrderID) bool, id domain.OrderID) string {
	if seen == nil || seen(id) {
		return ""
	}
	return "* "
}

func sides(oneSide bool) string {
	if oneSide {
		return "single"
	}
	return "double"
}

func status(completed bool) string {
	if completed {
		return "completed"
	}
	return "active"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
