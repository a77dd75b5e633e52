package demo

import (
	"fmt"
	"time"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

// Fixture accounts created by Seed.
const (
	AdminEmail    = "admin@campus.edu"
	AdminPassword = "admin123"
	StaffEmail    = "staff@campus.edu"
	StaffPassword = "staff123"
	// Every seeded student shares this password.
	StudentPassword = "student123"
)

// Seed fills s with a small shop: staff accounts, four students, a catalog,
// orders and print jobs spread over today and yesterday.
func Seed(s *Store) error {
	accounts := []domain.Registration{
		{Email: AdminEmail, Password: AdminPassword, Name: "Shop Admin", Number: "9000000001", Role: domain.RoleAdmin},
		{Email: StaffEmail, Password: StaffPassword, Name: "Counter Staff", Number: "9000000002", Role: domain.RoleStaff},
		{Email: "ansh@campus.edu", Password: StudentPassword, Name: "Ansh Kapila", Number: "9876543210", Role: domain.RoleStudent},
		{Email: "rahul@campus.edu", Password: StudentPassword, Name: "Rahul Sharma", Number: "9876543211", Role: domain.RoleStudent},
		{Email: "priya@campus.edu", Password: StudentPassword, Name: "Priya Patel", Number: "9876543212", Role: domain.RoleStudent},
		{Email: "amit@campus.edu", Password: StudentPassword, Name: "Amit Kumar", Number: "9876543213", Role: domain.RoleStudent},
	}
	students := make([]int64, 0, 4)
	for _, reg := range accounts {
		id, err := s.AddUser(reg)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", reg.Email, err)
		}
		if reg.Role == domain.RoleStudent {
			students = append(students, id.ID)
		}
	}

	notebook := s.CreateItem("A4 Notebook", "45.00", true)
	pen := s.CreateItem("Blue Pen", "10.00", true)
	stapler := s.CreateItem("Stapler", "120.00", true)
	s.CreateItem("Highlighter", "25.00", true)
	s.CreateItem("Graph Sheets", "5.00", false)

	now := s.now().UTC()
	yesterday := now.Add(-24 * time.Hour)

	s.mu.Lock()
	defer s.mu.Unlock()

	order := func(user, item int64, qty int, cost, msg string, at time.Time) orderRecord {
		s.nextOrderID++
		return orderRecord{ID: s.nextOrderID, UserID: &user, ItemID: &item, Quantity: qty, Cost: cost, CustomMessage: msg, OrderTime: at}
	}
	s.activeOrders = append(s.activeOrders,
		order(students[0], notebook.ID, 2, "90.00", "", now.Add(-2*time.Hour)),
		order(students[1], pen.ID, 5, "50.00", "Black if blue is out", now.Add(-time.Hour)),
		order(students[2], stapler.ID, 1, "120.00", "", now.Add(-20*time.Minute)),
	)
	s.pastOrders = append(s.pastOrders,
		order(students[3], notebook.ID, 1, "45.00", "", yesterday),
		order(students[0], pen.ID, 2, "20.00", "", yesterday.Add(time.Hour)),
	)

	printout := func(user int64, colour, bw string, oneSide bool, cost string, at time.Time, name string) printoutRecord {
		s.nextPrintID++
		s.nextFileID++
		return printoutRecord{
			ID:                 s.nextPrintID,
			UserID:             &user,
			ColouredPages:      colour,
			BlackAndWhitePages: bw,
			PrintOnOneSide:     oneSide,
			Cost:               cost,
			OrderTime:          at,
			Files:              []printoutFile{{ID: s.nextFileID, Name: name, Data: samplePDF(name)}},
		}
	}
	s.activePrintouts = append(s.activePrintouts,
		printout(students[1], "1-2", "3-10", false, "36.00", now.Add(-90*time.Minute), "lab-record.pdf"),
		printout(students[3], "", "1-5,10-15", true, "22.00", now.Add(-10*time.Minute), "assignment-3.pdf"),
	)
	s.pastPrintouts = append(s.pastPrintouts,
		printout(students[2], "1", "", true, "10.00", yesterday, "poster.pdf"),
	)
	return nil
}

// samplePDF returns a tiny single-page PDF with title as its only text.
func samplePDF(title string) []byte {
	return []byte(fmt.Sprintf("%%PDF-1.4\n"+
		"1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj\n"+
		"2 0 obj << /Type /Pages /Kids [3 0 R] /Count 1 >> endobj\n"+
		"3 0 obj << /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Contents 4 0 R >> endobj\n"+
		"4 0 obj << >> stream\nBT /F1 24 Tf 72 760 Td (%s) Tj ET\nendstream endobj\n"+
		"trailer << /Root 1 0 R >>\n%%%%EOF\n", title))
}
