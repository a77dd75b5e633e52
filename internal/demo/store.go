package demo

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

var (
	errNotFound        = errors.New("not found")
	errEmailTaken      = errors.New("user with this email already exists.")
	errInvalidPassword = errors.New("invalid credentials")
)

type user struct {
	ID           int64
	Email        string
	Name         string
	Number       string
	Role         string
	PasswordHash []byte
}

func (u *user) identity() domain.Identity {
	return domain.Identity{ID: u.ID, Email: u.Email, Name: u.Name, Number: u.Number, Role: u.Role}
}

type orderRecord struct {
	ID            int64
	UserID        *int64
	ItemID        *int64
	Quantity      int
	Cost          string
	CustomMessage string
	OrderTime     time.Time
}

type printoutFile struct {
	ID   int64
	Name string
	Data []byte
}

type printoutRecord struct {
	ID                 int64
	UserID             *int64
	ColouredPages      string
	BlackAndWhitePages string
	PrintOnOneSide     bool
	Cost               string
	CustomMessage      string
	OrderTime          time.Time
	Files              []printoutFile
}

// Store is the demo API's in-memory state. Completing an order moves it from
// the active to the past list under the same id.
type Store struct {
	mu       sync.Mutex
	hashCost int
	now      func() time.Time

	users   map[int64]*user
	byEmail map[string]int64
	items   []domain.Item

	activeOrders    []orderRecord
	pastOrders      []orderRecord
	activePrintouts []printoutRecord
	pastPrintouts   []printoutRecord

	// revoked holds the jti of every refresh token that was logged out or
	// rotated.
	revoked map[string]struct{}

	nextUserID  int64
	nextItemID  int64
	nextOrderID int64
	nextPrintID int64
	nextFileID  int64
}

func NewStore(hashCost int, now func() time.Time) *Store {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		hashCost: hashCost,
		now:      now,
		users:    make(map[int64]*user),
		byEmail:  make(map[string]int64),
		revoked:  make(map[string]struct{}),
	}
}

// --- users ---

func (s *Store) AddUser(reg domain.Registration) (domain.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.hashCost)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(reg.Email))
	if _, ok := s.byEmail[email]; ok {
		return domain.Identity{}, errEmailTaken
	}
	s.nextUserID++
	u := &user{
		ID:           s.nextUserID,
		Email:        email,
		Name:         reg.Name,
		Number:       reg.Number,
		Role:         reg.Role,
		PasswordHash: hash,
	}
	s.users[u.ID] = u
	s.byEmail[email] = u.ID
	return u.identity(), nil
}

// Authenticate checks an email/password pair.
func (s *Store) Authenticate(email, password string) (domain.Identity, error) {
	s.mu.Lock()
	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	var u *user
	if ok {
		u = s.users[id]
	}
	s.mu.Unlock()

	if u == nil || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return domain.Identity{}, errInvalidPassword
	}
	return u.identity(), nil
}

func (s *Store) User(id int64) (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.Identity{}, errNotFound
	}
	return u.identity(), nil
}

// DeleteUser removes an account. Its orders stay behind without an owner.
func (s *Store) DeleteUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return
	}
	delete(s.byEmail, u.Email)
	delete(s.users, id)
	for _, list := range [][]orderRecord{s.activeOrders, s.pastOrders} {
		for i := range list {
			if list[i].UserID != nil && *list[i].UserID == id {
				list[i].UserID = nil
			}
		}
	}
	for _, list := range [][]printoutRecord{s.activePrintouts, s.pastPrintouts} {
		for i := range list {
			if list[i].UserID != nil && *list[i].UserID == id {
				list[i].UserID = nil
			}
		}
	}
}

func (s *Store) Revoke(jti string) {
	s.mu.Lock()
	s.revoked[jti] = struct{}{}
	s.mu.Unlock()
}

func (s *Store) Revoked(jti string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[jti]
	return ok
}

// --- items ---

func (s *Store) Items() []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Store) CreateItem(name, price string, inStock bool) domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextItemID++
	it := domain.Item{ID: s.nextItemID, Item: name, Price: price, InStock: inStock}
	s.items = append(s.items, it)
	return it
}

func (s *Store) UpdateItem(id int64, in domain.ItemInput) (domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.itemIndex(id)
	if i < 0 {
		return domain.Item{}, errNotFound
	}
	s.items[i] = in.ApplyTo(s.items[i])
	return s.items[i], nil
}

// DeleteItem removes an item and returns its name. Orders referencing it
// keep their row with no item.
func (s *Store) DeleteItem(id int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.itemIndex(id)
	if i < 0 {
		return "", errNotFound
	}
	name := s.items[i].Item
	s.items = slices.Delete(s.items, i, i+1)
	for _, list := range [][]orderRecord{s.activeOrders, s.pastOrders} {
		for j := range list {
			if list[j].ItemID != nil && *list[j].ItemID == id {
				list[j].ItemID = nil
			}
		}
	}
	return name, nil
}

func (s *Store) ToggleStock(id int64) (domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.itemIndex(id)
	if i < 0 {
		return domain.Item{}, errNotFound
	}
	s.items[i].InStock = !s.items[i].InStock
	return s.items[i], nil
}

func (s *Store) itemIndex(id int64) int {
	return slices.IndexFunc(s.items, func(it domain.Item) bool { return it.ID == id })
}

// --- orders ---

// PlaceOrder records an active order for userID. Cost is price times
// quantity.
func (s *Store) PlaceOrder(userID, itemID int64, quantity int, message string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.itemIndex(itemID)
	if i < 0 {
		return 0, errNotFound
	}
	cost := s.items[i].PriceValue() * float64(quantity)
	s.nextOrderID++
	s.activeOrders = append(s.activeOrders, orderRecord{
		ID:            s.nextOrderID,
		UserID:        &userID,
		ItemID:        &itemID,
		Quantity:      quantity,
		Cost:          fmt.Sprintf("%.2f", cost),
		CustomMessage: message,
		OrderTime:     s.now().UTC(),
	})
	return s.nextOrderID, nil
}

// PlacePrintout records an active print job with one attached file.
func (s *Store) PlacePrintout(userID int64, p printoutRecord, fileName string, data []byte) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPrintID++
	s.nextFileID++
	p.ID = s.nextPrintID
	p.UserID = &userID
	if p.OrderTime.IsZero() {
		p.OrderTime = s.now().UTC()
	}
	p.Files = []printoutFile{{ID: s.nextFileID, Name: fileName, Data: data}}
	s.activePrintouts = append(s.activePrintouts, p)
	return p.ID
}

func (s *Store) CompleteOrder(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.activeOrders, func(o orderRecord) bool { return o.ID == id })
	if i < 0 {
		return errNotFound
	}
	s.pastOrders = append(s.pastOrders, s.activeOrders[i])
	s.activeOrders = slices.Delete(s.activeOrders, i, i+1)
	return nil
}

func (s *Store) CompletePrintout(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.activePrintouts, func(p printoutRecord) bool { return p.ID == id })
	if i < 0 {
		return errNotFound
	}
	s.pastPrintouts = append(s.pastPrintouts, s.activePrintouts[i])
	s.activePrintouts = slices.Delete(s.activePrintouts, i, i+1)
	return nil
}

// --- views ---

// orderFilter selects rows; nil keeps everything.
type orderFilter func(userID *int64) bool

func ownedBy(id int64) orderFilter {
	return func(userID *int64) bool { return userID != nil && *userID == id }
}

func (s *Store) OrderRows(scope domain.Scope, keep orderFilter) []orderRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.activeOrders
	if scope == domain.ScopePast {
		list = s.pastOrders
	}
	rows := make([]orderRow, 0, len(list))
	for _, o := range list {
		if keep != nil && !keep(o.UserID) {
			continue
		}
		rows = append(rows, s.orderRow(o, scope == domain.ScopePast))
	}
	return rows
}

func (s *Store) PrintoutRows(scope domain.Scope, keep orderFilter, fileURL func(printoutFile) string) []printoutRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.activePrintouts
	if scope == domain.ScopePast {
		list = s.pastPrintouts
	}
	rows := make([]printoutRow, 0, len(list))
	for _, p := range list {
		if keep != nil && !keep(p.UserID) {
			continue
		}
		rows = append(rows, s.printoutRow(p, scope == domain.ScopePast, fileURL))
	}
	return rows
}

// OrderDetail looks in the active list first, then the past one.
func (s *Store) OrderDetail(id int64) (orderDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, past := range []bool{false, true} {
		list := s.activeOrders
		if past {
			list = s.pastOrders
		}
		i := slices.IndexFunc(list, func(o orderRecord) bool { return o.ID == id })
		if i < 0 {
			continue
		}
		o := list[i]
		d := orderDetail{orderRow: s.orderRow(o, past), UserNumber: "N/A", ItemPrice: "0", IsCompleted: past}
		if u := s.owner(o.UserID); u != nil {
			d.UserNumber = u.Number
		}
		if o.ItemID != nil {
			if j := s.itemIndex(*o.ItemID); j >= 0 {
				d.ItemPrice = s.items[j].Price
			}
		}
		return d, nil
	}
	return orderDetail{}, errNotFound
}

func (s *Store) PrintoutDetail(id int64, fileURL func(printoutFile) string) (printoutDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, past, ok := s.findPrintout(id)
	if !ok {
		return printoutDetail{}, errNotFound
	}
	row := s.printoutRow(p, past, fileURL)
	d := printoutDetail{
		printoutRow: row,
		UserNumber:  "N/A",
		TotalPages:  domain.PageRange(p.ColouredPages).Count() + domain.PageRange(p.BlackAndWhitePages).Count(),
		IsCompleted: past,
	}
	if u := s.owner(p.UserID); u != nil {
		d.UserNumber = u.Number
	}
	return d, nil
}

// PrintoutFile returns the primary file of a print job.
func (s *Store) PrintoutFile(id int64) (printoutFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, _, ok := s.findPrintout(id)
	if !ok {
		return printoutFile{}, errNotFound
	}
	if len(p.Files) == 0 {
		return printoutFile{}, errNoFile
	}
	return p.Files[0], nil
}

// FileByID returns any attached file by its own id.
func (s *Store) FileByID(fileID int64) (printoutFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, list := range [][]printoutRecord{s.activePrintouts, s.pastPrintouts} {
		for _, p := range list {
			for _, f := range p.Files {
				if f.ID == fileID {
					return f, nil
				}
			}
		}
	}
	return printoutFile{}, errNotFound
}

var errNoFile = errors.New("No file associated with this order")

func (s *Store) findPrintout(id int64) (printoutRecord, bool, bool) {
	if i := slices.IndexFunc(s.activePrintouts, func(p printoutRecord) bool { return p.ID == id }); i >= 0 {
		return s.activePrintouts[i], false, true
	}
	if i := slices.IndexFunc(s.pastPrintouts, func(p printoutRecord) bool { return p.ID == id }); i >= 0 {
		return s.pastPrintouts[i], true, true
	}
	return printoutRecord{}, false, false
}

// Stats computes the dashboard counters for the current UTC day.
func (s *Store) Stats() domain.DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	y, m, d := s.now().UTC().Date()
	today := func(t time.Time) bool {
		ty, tm, td := t.UTC().Date()
		return ty == y && tm == m && td == d
	}

	var st domain.DashboardStats
	var revenue float64
	for _, o := range s.activeOrders {
		if today(o.OrderTime) {
			st.NewOrdersCount++
			revenue += parseCost(o.Cost)
		}
	}
	for _, p := range s.activePrintouts {
		if today(p.OrderTime) {
			st.NewOrdersCount++
			revenue += parseCost(p.Cost)
		}
	}
	for _, o := range s.pastOrders {
		if today(o.OrderTime) {
			st.CompletedOrdersCount++
		}
	}
	for _, p := range s.pastPrintouts {
		if today(p.OrderTime) {
			st.CompletedOrdersCount++
		}
	}
	st.TotalRevenueToday = roundCents(revenue)
	st.ActiveOrdersCount = len(s.activeOrders)
	st.ActivePrintoutsCount = len(s.activePrintouts)
	st.TotalActiveCount = st.ActiveOrdersCount + st.ActivePrintoutsCount
	return st
}

func (s *Store) owner(id *int64) *user {
	if id == nil {
		return nil
	}
	return s.users[*id]
}

func (s *Store) orderRow(o orderRecord, past bool) orderRow {
	row := orderRow{
		OrderID:       wireID(o.ID, past),
		UserName:      "Unknown",
		UserEmail:     "N/A",
		ItemName:      "Unknown",
		Quantity:      o.Quantity,
		Cost:          o.Cost,
		CustomMessage: o.CustomMessage,
		OrderTime:     o.OrderTime,
	}
	if u := s.owner(o.UserID); u != nil {
		uid := u.ID
		row.UserID, row.UserName, row.UserEmail = &uid, u.Name, u.Email
	}
	if o.ItemID != nil {
		if i := s.itemIndex(*o.ItemID); i >= 0 {
			id := s.items[i].ID
			row.ItemID, row.ItemName = &id, s.items[i].Item
		}
	}
	return row
}

func (s *Store) printoutRow(p printoutRecord, past bool, fileURL func(printoutFile) string) printoutRow {
	row := printoutRow{
		OrderID:            wireID(p.ID, past),
		UserName:           "Unknown",
		UserEmail:          "N/A",
		ColouredPages:      p.ColouredPages,
		BlackAndWhitePages: p.BlackAndWhitePages,
		PrintOnOneSide:     p.PrintOnOneSide,
		Cost:               p.Cost,
		CustomMessage:      p.CustomMessage,
		OrderTime:          p.OrderTime,
	}
	if u := s.owner(p.UserID); u != nil {
		uid := u.ID
		row.UserID, row.UserName, row.UserEmail = &uid, u.Name, u.Email
	}
	if len(p.Files) > 0 && fileURL != nil {
		url := fileURL(p.Files[0])
		row.File = &url
	}
	return row
}
