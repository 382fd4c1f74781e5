package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/tuanvumaihuynh/medical-inventory/internal/model"
	"github.com/tuanvumaihuynh/medical-inventory/internal/repository"
	"github.com/tuanvumaihuynh/medical-inventory/internal/storage/db"
)

// fakeDB runs callbacks inline. A non-nil acquireErr simulates an
// unreachable database.
type fakeDB struct {
	db.DB
	acquireErr error
	conns      int
	txs        int
}

func (f *fakeDB) WithConn(_ context.Context, fn func(db.DB) error) error {
	if f.acquireErr != nil {
		return errors.Join(db.ErrConnAcquire, f.acquireErr)
	}
	f.conns++
	return fn(f)
}

func (f *fakeDB) WithTx(ctx context.Context, fn func(db.DB) error) error {
	return f.WithConn(ctx, func(conn db.DB) error {
		f.txs++
		return fn(conn)
	})
}

// memMedicineRepo keeps medicines in id order, mirroring the SQL semantics.
type memMedicineRepo struct {
	nextID    int64
	medicines []model.Medicine
	err       error

	lowStockThreshold int32
	expiryCutoff      time.Time
}

func (r *memMedicineRepo) WithDB(db.DB) repository.MedicineRepository { return r }

func (r *memMedicineRepo) ListMedicines(context.Context) ([]model.Medicine, error) {
	if r.err != nil {
		return nil, r.err
	}
	return slices.Clone(r.medicines), nil
}

func (r *memMedicineRepo) CreateMedicine(_ context.Context, m model.Medicine) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.nextID++
	m.ID = r.nextID
	r.medicines = append(r.medicines, m)
	return m.ID, nil
}

func (r *memMedicineRepo) UpdateMedicine(_ context.Context, m model.Medicine) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	for i := range r.medicines {
		if r.medicines[i].ID == m.ID {
			r.medicines[i] = m
			return true, nil
		}
	}
	return false, nil
}

func (r *memMedicineRepo) DeleteMedicine(_ context.Context, id int64) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	n := len(r.medicines)
	r.medicines = slices.DeleteFunc(r.medicines, func(m model.Medicine) bool { return m.ID == id })
	return len(r.medicines) != n, nil
}

func (r *memMedicineRepo) SearchMedicines(_ context.Context, query string) ([]model.Medicine, error) {
	if r.err != nil {
		return nil, r.err
	}
	q := strings.ToLower(query)
	var out []model.Medicine
	for _, m := range r.medicines {
		if strings.Contains(strings.ToLower(m.Name), q) || strings.Contains(strings.ToLower(m.BatchNumber), q) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMedicineRepo) ListLowStockMedicines(_ context.Context, threshold int32) ([]model.LowStockMedicine, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.lowStockThreshold = threshold
	out := []model.LowStockMedicine{}
	for _, m := range r.medicines {
		if m.Quantity < threshold {
			out = append(out, model.LowStockMedicine{ID: m.ID, Name: m.Name, Quantity: m.Quantity})
		}
	}
	return out, nil
}

func (r *memMedicineRepo) ListNearExpiryMedicines(_ context.Context, cutoff time.Time) ([]model.NearExpiryMedicine, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.expiryCutoff = cutoff
	out := []model.NearExpiryMedicine{}
	for _, m := range r.medicines {
		if !m.ExpiryDate.After(cutoff) {
			out = append(out, model.NearExpiryMedicine{ID: m.ID, Name: m.Name, ExpiryDate: m.ExpiryDate})
		}
	}
	return out, nil
}

type memOutboxRepo struct {
	msgs []repository.CreateOutboxMsgParams
	err  error
}

func (r *memOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r *memOutboxRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, params)
	return nil
}

func (r *memOutboxRepo) ListUnprocessedOutboxMsgs(context.Context, repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	return nil, nil
}

func (r *memOutboxRepo) BulkUpdateOutboxMsgs(context.Context, repository.BulkUpdateOutboxMsgsParams) error {
	return nil
}

type memUserRepo struct {
	users []model.User
	err   error
}

func (r *memUserRepo) WithDB(db.DB) repository.UserRepository { return r }

func (r *memUserRepo) ListUsers(context.Context) ([]model.User, error) {
	return r.users, r.err
}
