package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportbot/internal/domain/models"
	"reportbot/pkg/clients/telegram"
)

// fakeSender scripts per-call outcomes and records what was sent.
type fakeSender struct {
	mu        sync.Mutex
	ok        bool
	texts     []string
	photos    []string
	albums    int
	locations []string
}

func (f *fakeSender) SendText(_ context.Context, location, text string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	f.locations = append(f.locations, location)
	return f.ok
}

func (f *fakeSender) SendPhoto(_ context.Context, location, _ string, photoPath string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photos = append(f.photos, photoPath)
	f.locations = append(f.locations, location)
	return f.ok
}

func (f *fakeSender) SendAlbum(_ context.Context, location, _ string, _ []telegram.AlbumPhoto) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.albums++
	f.locations = append(f.locations, location)
	return f.ok
}

type fakeShiftSource struct {
	mu      sync.Mutex
	reports map[int64]*models.ShiftReport
	sent    []int64
	readErr error
	markErr error
}

func (f *fakeShiftSource) GetByID(_ context.Context, id int64) (*models.ShiftReport, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	report, ok := f.reports[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return report, nil
}

func (f *fakeShiftSource) MarkSent(_ context.Context, id int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, id)
	return nil
}

type fakeInventorySource struct {
	inventory *models.DetailedInventory
}

func (f *fakeInventorySource) GetDetailed(context.Context, int64) (*models.DetailedInventory, error) {
	if f.inventory == nil {
		return nil, errors.New("not found")
	}
	return f.inventory, nil
}

type fakeGoodsSource struct {
	report *models.GoodsReport
}

func (f *fakeGoodsSource) GetByID(context.Context, int64) (*models.GoodsReport, error) {
	if f.report == nil {
		return nil, errors.New("not found")
	}
	return f.report, nil
}

type fakeActSource struct {
	act *models.WriteoffTransfer
}

func (f *fakeActSource) GetByID(context.Context, int64) (*models.WriteoffTransfer, error) {
	if f.act == nil {
		return nil, errors.New("not found")
	}
	return f.act, nil
}

func newTestWorker(sender *fakeSender, shifts *fakeShiftSource) *Worker {
	return NewWorker(
		sender,
		shifts,
		&fakeInventorySource{inventory: &models.DetailedInventory{Location: "Касса - Гагарина 48/1", ShiftType: models.ShiftMorning, Date: time.Now()}},
		&fakeGoodsSource{report: &models.GoodsReport{Location: "Касса - Гагарина 48/1", ShiftType: models.ShiftMorning}},
		&fakeActSource{act: &models.WriteoffTransfer{Location: "Касса - Гагарина 48/1", ShiftType: models.ShiftMorning}},
		nil,
		8, 1,
		nil,
	)
}

func testShiftSource() *fakeShiftSource {
	return &fakeShiftSource{
		reports: map[int64]*models.ShiftReport{
			1: {
				ID:        1,
				Location:  "Касса - Гагарина 48/1",
				ShiftType: models.ShiftMorning,
				PhotoPath: "shift_reports/a.jpg",
				Status:    models.StatusDraft,
			},
		},
	}
}

func TestWorkerMarksSentOnConfirmedDelivery(t *testing.T) {
	sender := &fakeSender{ok: true}
	shifts := testShiftSource()
	w := newTestWorker(sender, shifts)

	w.Start()
	w.Enqueue(Job{Kind: JobShiftReport, ReportID: 1})
	w.Stop()

	require.Len(t, sender.photos, 1)
	assert.Equal(t, []int64{1}, shifts.sent)
}

func TestWorkerKeepsDraftOnFailedDelivery(t *testing.T) {
	sender := &fakeSender{ok: false}
	shifts := testShiftSource()
	w := newTestWorker(sender, shifts)

	w.Start()
	w.Enqueue(Job{Kind: JobShiftReport, ReportID: 1})
	w.Stop()

	require.Len(t, sender.photos, 1, "delivery was attempted")
	assert.Empty(t, shifts.sent, "failed delivery must not transition the status")
}

func TestWorkerFailureDoesNotAffectLaterJobs(t *testing.T) {
	sender := &fakeSender{ok: true}
	shifts := testShiftSource()
	shifts.readErr = nil
	w := newTestWorker(sender, shifts)

	w.Start()
	// Unknown report id fails, the following jobs still run.
	w.Enqueue(Job{Kind: JobShiftReport, ReportID: 42})
	w.Enqueue(Job{Kind: JobDailyInventory, ReportID: 5})
	w.Enqueue(Job{Kind: JobWriteoffTransfer, ReportID: 6})
	w.Stop()

	assert.Len(t, sender.texts, 2)
	assert.Empty(t, shifts.sent)
}

func TestWorkerGoodsReportWithPhotosSendsAlbum(t *testing.T) {
	sender := &fakeSender{ok: true}
	w := newTestWorker(sender, testShiftSource())

	w.Start()
	w.Enqueue(Job{
		Kind:     JobGoodsReport,
		ReportID: 3,
		Photos: []telegram.AlbumPhoto{
			{Filename: "a.jpg", Content: []byte{1}},
			{Filename: "b.jpg", Content: []byte{2}},
		},
	})
	w.Enqueue(Job{Kind: JobGoodsReport, ReportID: 3})
	w.Stop()

	assert.Equal(t, 1, sender.albums, "photos ride the album path")
	assert.Len(t, sender.texts, 1, "photoless report goes out as text")
}

func TestWorkerEnqueueNeverBlocksWhenFull(t *testing.T) {
	sender := &fakeSender{ok: true}
	w := NewWorker(sender, testShiftSource(), &fakeInventorySource{}, &fakeGoodsSource{}, &fakeActSource{}, nil, 1, 1, nil)

	// Not started: the queue holds one job, the rest are dropped without
	// blocking.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			w.Enqueue(Job{Kind: JobShiftReport, ReportID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestWorkerDeliveredButMarkFailedStaysQuiet(t *testing.T) {
	sender := &fakeSender{ok: true}
	shifts := testShiftSource()
	shifts.markErr = errors.New("db down")
	w := newTestWorker(sender, shifts)

	w.Start()
	w.Enqueue(Job{Kind: JobShiftReport, ReportID: 1})
	w.Stop()

	require.Len(t, sender.photos, 1)
	assert.Empty(t, shifts.sent)
}
