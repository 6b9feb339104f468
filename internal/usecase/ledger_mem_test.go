package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// =====================
// インメモリのTxRepos実装。
// WithinTxがスナップショットを取り、エラー時に巻き戻すことで
// DBトランザクションのロールバックを再現する。
// =====================

type memStore struct {
	mu     sync.Mutex
	nextID int64

	items         map[int64]model.Item
	history       []model.StatusHistoryEntry
	sales         map[int64]model.Sale
	saleLines     []model.SaleLine
	purchases     map[int64]model.Purchase
	purchaseLines []model.PurchaseLine
	conditionals  map[int64]model.Conditional
	condLines     []model.ConditionalLine
	writeOffs     map[int64]model.WriteOff
}

func newMemStore() *memStore {
	return &memStore{
		items:        map[int64]model.Item{},
		sales:        map[int64]model.Sale{},
		purchases:    map[int64]model.Purchase{},
		conditionals: map[int64]model.Conditional{},
		writeOffs:    map[int64]model.WriteOff{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

type memSnapshot struct {
	nextID        int64
	items         map[int64]model.Item
	history       []model.StatusHistoryEntry
	sales         map[int64]model.Sale
	saleLines     []model.SaleLine
	purchases     map[int64]model.Purchase
	purchaseLines []model.PurchaseLine
	conditionals  map[int64]model.Conditional
	condLines     []model.ConditionalLine
	writeOffs     map[int64]model.WriteOff
}

func copyMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		nextID:        s.nextID,
		items:         copyMap(s.items),
		history:       append([]model.StatusHistoryEntry(nil), s.history...),
		sales:         copyMap(s.sales),
		saleLines:     append([]model.SaleLine(nil), s.saleLines...),
		purchases:     copyMap(s.purchases),
		purchaseLines: append([]model.PurchaseLine(nil), s.purchaseLines...),
		conditionals:  copyMap(s.conditionals),
		condLines:     append([]model.ConditionalLine(nil), s.condLines...),
		writeOffs:     copyMap(s.writeOffs),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.nextID = snap.nextID
	s.items = snap.items
	s.history = snap.history
	s.sales = snap.sales
	s.saleLines = snap.saleLines
	s.purchases = snap.purchases
	s.purchaseLines = snap.purchaseLines
	s.conditionals = snap.conditionals
	s.condLines = snap.condLines
	s.writeOffs = snap.writeOffs
}

type memTxManager struct {
	s *memStore
}

func (m *memTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	snap := m.s.snapshot()
	if err := fn(&memRepos{s: m.s}); err != nil {
		m.s.restore(snap)
		return err
	}
	return nil
}

type memRepos struct {
	s *memStore
}

func (r *memRepos) Items() repo.ItemRepository               { return &memItems{s: r.s} }
func (r *memRepos) Sales() repo.SaleRepository               { return &memSales{s: r.s} }
func (r *memRepos) Purchases() repo.PurchaseRepository       { return &memPurchases{s: r.s} }
func (r *memRepos) Conditionals() repo.ConditionalRepository { return &memConditionals{s: r.s} }
func (r *memRepos) WriteOffs() repo.WriteOffRepository       { return &memWriteOffs{s: r.s} }
func (r *memRepos) History() repo.StatusHistoryRepository    { return &memHistory{s: r.s} }

type memItems struct{ s *memStore }

func (m *memItems) FindByID(ctx context.Context, id int64) (model.Item, error) {
	it, ok := m.s.items[id]
	if !ok {
		return model.Item{}, repo.ErrNotFound
	}
	return it, nil
}

func (m *memItems) FindByName(ctx context.Context, name string) (model.Item, error) {
	for _, it := range m.s.items {
		if it.Name == name {
			return it, nil
		}
	}
	return model.Item{}, repo.ErrNotFound
}

func (m *memItems) Create(ctx context.Context, it model.Item) (model.Item, error) {
	it.ID = m.s.id()
	m.s.items[it.ID] = it
	return it, nil
}

func (m *memItems) List(ctx context.Context, q repo.ItemListQuery) ([]model.Item, int64, error) {
	var out []model.Item
	for _, it := range m.s.items {
		out = append(out, it)
	}
	return out, int64(len(out)), nil
}

func (m *memItems) AdjustQuantity(ctx context.Context, itemID int64, delta int64) (int64, error) {
	it, ok := m.s.items[itemID]
	if !ok {
		return 0, repo.ErrNotFound
	}
	if it.Quantity+delta < 0 {
		return it.Quantity, repo.ErrInsufficientStock
	}
	it.Quantity += delta
	m.s.items[itemID] = it
	return it.Quantity, nil
}

func (m *memItems) SetStatus(ctx context.Context, itemID int64, status model.ItemStatus) error {
	it, ok := m.s.items[itemID]
	if !ok {
		return repo.ErrNotFound
	}
	it.Status = status
	m.s.items[itemID] = it
	return nil
}

type memSales struct{ s *memStore }

func (m *memSales) Create(ctx context.Context, sale model.Sale) (int64, error) {
	sale.ID = m.s.id()
	m.s.sales[sale.ID] = sale
	return sale.ID, nil
}

func (m *memSales) CreateLines(ctx context.Context, saleID int64, lines []model.SaleLine) error {
	for _, l := range lines {
		l.ID = m.s.id()
		l.SaleID = saleID
		m.s.saleLines = append(m.s.saleLines, l)
	}
	return nil
}

func (m *memSales) FindByID(ctx context.Context, saleID int64) (model.Sale, error) {
	s, ok := m.s.sales[saleID]
	if !ok {
		return model.Sale{}, repo.ErrNotFound
	}
	return s, nil
}

func (m *memSales) ListLines(ctx context.Context, saleID int64) ([]model.SaleLine, error) {
	var out []model.SaleLine
	for _, l := range m.s.saleLines {
		if l.SaleID == saleID {
			out = append(out, l)
		}
	}
	return out, nil
}

type memPurchases struct{ s *memStore }

func (m *memPurchases) Create(ctx context.Context, p model.Purchase) (int64, error) {
	p.ID = m.s.id()
	m.s.purchases[p.ID] = p
	return p.ID, nil
}

func (m *memPurchases) CreateLines(ctx context.Context, purchaseID int64, lines []model.PurchaseLine) error {
	for _, l := range lines {
		l.ID = m.s.id()
		l.PurchaseID = purchaseID
		m.s.purchaseLines = append(m.s.purchaseLines, l)
	}
	return nil
}

func (m *memPurchases) FindByID(ctx context.Context, purchaseID int64) (model.Purchase, error) {
	p, ok := m.s.purchases[purchaseID]
	if !ok {
		return model.Purchase{}, repo.ErrNotFound
	}
	return p, nil
}

func (m *memPurchases) ListLines(ctx context.Context, purchaseID int64) ([]model.PurchaseLine, error) {
	var out []model.PurchaseLine
	for _, l := range m.s.purchaseLines {
		if l.PurchaseID == purchaseID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memPurchases) SetLineItem(ctx context.Context, lineID int64, itemID int64) error {
	for i, l := range m.s.purchaseLines {
		if l.ID == lineID {
			id := itemID
			m.s.purchaseLines[i].ItemID = &id
			return nil
		}
	}
	return repo.ErrNotFound
}

func (m *memPurchases) MarkFinalized(ctx context.Context, purchaseID int64) error {
	p, ok := m.s.purchases[purchaseID]
	if !ok {
		return repo.ErrNotFound
	}
	p.Finalized = true
	m.s.purchases[purchaseID] = p
	return nil
}

type memConditionals struct{ s *memStore }

func (m *memConditionals) Create(ctx context.Context, c model.Conditional) (int64, error) {
	c.ID = m.s.id()
	m.s.conditionals[c.ID] = c
	return c.ID, nil
}

func (m *memConditionals) CreateLines(ctx context.Context, conditionalID int64, lines []model.ConditionalLine) error {
	for _, l := range lines {
		l.ID = m.s.id()
		l.ConditionalID = conditionalID
		m.s.condLines = append(m.s.condLines, l)
	}
	return nil
}

func (m *memConditionals) FindByID(ctx context.Context, conditionalID int64) (model.Conditional, error) {
	c, ok := m.s.conditionals[conditionalID]
	if !ok {
		return model.Conditional{}, repo.ErrNotFound
	}
	return c, nil
}

func (m *memConditionals) ListLines(ctx context.Context, conditionalID int64) ([]model.ConditionalLine, error) {
	var out []model.ConditionalLine
	for _, l := range m.s.condLines {
		if l.ConditionalID == conditionalID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memConditionals) MarkReturned(ctx context.Context, conditionalID int64) error {
	c, ok := m.s.conditionals[conditionalID]
	if !ok {
		return repo.ErrNotFound
	}
	c.Returned = true
	m.s.conditionals[conditionalID] = c
	return nil
}

func (m *memConditionals) MarkConverted(ctx context.Context, conditionalID int64, saleID int64) error {
	c, ok := m.s.conditionals[conditionalID]
	if !ok {
		return repo.ErrNotFound
	}
	c.Converted = true
	id := saleID
	c.SaleID = &id
	m.s.conditionals[conditionalID] = c
	return nil
}

type memWriteOffs struct{ s *memStore }

func (m *memWriteOffs) Create(ctx context.Context, w model.WriteOff) (int64, error) {
	w.ID = m.s.id()
	m.s.writeOffs[w.ID] = w
	return w.ID, nil
}

func (m *memWriteOffs) ListByItemID(ctx context.Context, itemID int64) ([]model.WriteOff, error) {
	var out []model.WriteOff
	for _, w := range m.s.writeOffs {
		if w.ItemID == itemID {
			out = append(out, w)
		}
	}
	return out, nil
}

type memHistory struct{ s *memStore }

func (m *memHistory) Append(ctx context.Context, entry model.StatusHistoryEntry) error {
	entry.ID = m.s.id()
	m.s.history = append(m.s.history, entry)
	return nil
}

func (m *memHistory) CurrentStatus(ctx context.Context, itemID int64) (model.ItemStatus, error) {
	for i := len(m.s.history) - 1; i >= 0; i-- {
		if m.s.history[i].ItemID == itemID {
			return m.s.history[i].NewStatus, nil
		}
	}
	return model.ItemStatusAvailable, nil
}

func (m *memHistory) ListByItemID(ctx context.Context, itemID int64) ([]model.StatusHistoryEntry, error) {
	var out []model.StatusHistoryEntry
	for _, e := range m.s.history {
		if e.ItemID == itemID {
			out = append(out, e)
		}
	}
	return out, nil
}

// =====================
// テスト用の部品
// =====================

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.t
}

type seqIDGen struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGen) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("code-%d", g.n)
}

func seedItem(s *memStore, name string, qty int64, price int64) model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := model.Item{
		Name:     name,
		Price:    price,
		Quantity: qty,
		Status:   model.ItemStatusAvailable,
	}
	it.ID = s.id()
	s.items[it.ID] = it
	return it
}

// 履歴に直接遷移を積む（準備用）
func seedTransition(s *memStore, itemID int64, from model.ItemStatus, to model.ItemStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := model.StatusHistoryEntry{ItemID: itemID, PriorStatus: from, NewStatus: to}
	e.ID = s.id()
	s.history = append(s.history, e)
	it := s.items[itemID]
	it.Status = to
	s.items[itemID] = it
}

func itemHistory(s *memStore, itemID int64) []model.StatusHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.StatusHistoryEntry
	for _, e := range s.history {
		if e.ItemID == itemID {
			out = append(out, e)
		}
	}
	return out
}

func storedItem(s *memStore, itemID int64) model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[itemID]
}
