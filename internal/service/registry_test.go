package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/bigkaa/stroydoc/internal/domain/draft"
	"github.com/bigkaa/stroydoc/internal/domain/model"
	"github.com/bigkaa/stroydoc/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRegistry(t *testing.T, writeBack bool) *RegistryService {
	t.Helper()
	repo := repository.NewMemoryActRepository()
	if _, err := repository.Seed(context.Background(), repo, repository.SeedActs()); err != nil {
		t.Fatalf("Seed() ошибка: %v", err)
	}
	svc := NewRegistryService(repo, model.DefaultProjects, writeBack, testLogger())
	svc.newID = func() string { return "new-act" }
	return svc
}

func validDraft() draft.Draft {
	d := draft.Draft{}.WithFields(draft.Fields{
		Number:  "АСР-004",
		Date:    "2024-11-20",
		Project: "project2",
		Title:   "Акт на скрытые работы по монтажу закладных деталей",
	})
	d, _ = d.WithFiles(draft.KindImage, []draft.FileRef{{Name: "a.jpg"}, {Name: "b.png"}})
	d, _ = d.WithFiles(draft.KindDocument, []draft.FileRef{{Name: "cert.pdf"}})
	return d
}

func TestRegistry_Stats(t *testing.T) {
	svc := newRegistry(t, false)
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() ошибка: %v", err)
	}
	want := model.Stats{Total: 3, Approved: 2, Pending: 1, Rejected: 0}
	if stats != want {
		t.Errorf("Stats() = %+v, ожидается %+v", stats, want)
	}
}

func TestRegistry_GetNotFound(t *testing.T) {
	svc := newRegistry(t, false)
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидается ErrNotFound, получено %v", err)
	}
	if err := svc.Remove(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove() ожидается ErrNotFound, получено %v", err)
	}
}

func TestRegistry_InsertErrors(t *testing.T) {
	svc := newRegistry(t, false)
	ctx := context.Background()

	dup := repository.SeedActs()[0]
	if err := svc.Insert(ctx, &dup); !errors.Is(err, ErrConflict) {
		t.Errorf("дубликат: ожидается ErrConflict, получено %v", err)
	}

	bad := model.Act{ID: "x", Status: "archived"}
	err := svc.Insert(ctx, &bad)
	if !errors.Is(err, ErrValidation) || !errors.Is(err, model.ErrUnknownStatus) {
		t.Errorf("неизвестный статус: получено %v", err)
	}
}

func TestRegistry_InsertAssignsID(t *testing.T) {
	svc := newRegistry(t, false)
	act := model.Act{Number: "АСР-005", Status: model.StatusRejected, Date: model.MustDate("2024-12-01")}
	if err := svc.Insert(context.Background(), &act); err != nil {
		t.Fatalf("Insert() ошибка: %v", err)
	}
	if act.ID != "new-act" {
		t.Errorf("ID = %q, ожидается new-act", act.ID)
	}
	stats, _ := svc.Stats(context.Background())
	if stats.Rejected != 1 || stats.Total != 4 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestRegistry_SubmitWithoutWriteBack(t *testing.T) {
	svc := newRegistry(t, false)
	ctx := context.Background()

	res, err := svc.Submit(ctx, validDraft())
	if err != nil {
		t.Fatalf("Submit() ошибка: %v", err)
	}
	if res.Stored {
		t.Error("Stored = true без write-back")
	}
	a := res.Act
	if a.Status != model.StatusPending || a.Photos != 2 || a.Certificates != 1 {
		t.Errorf("акт = %+v", a)
	}
	if a.Project != `ТЦ "Метрополис"` {
		t.Errorf("Project = %q", a.Project)
	}

	if acts, _ := svc.List(ctx); len(acts) != 3 {
		t.Errorf("реестр изменился: %d актов", len(acts))
	}
}

func TestRegistry_SubmitWithWriteBack(t *testing.T) {
	svc := newRegistry(t, true)
	ctx := context.Background()

	res, err := svc.Submit(ctx, validDraft())
	if err != nil {
		t.Fatalf("Submit() ошибка: %v", err)
	}
	if !res.Stored {
		t.Error("Stored = false при write-back")
	}

	acts, _ := svc.List(ctx)
	if len(acts) != 4 || acts[3].ID != "new-act" || acts[3].Number != "АСР-004" {
		t.Errorf("новый акт не в конце реестра: %+v", acts)
	}
}

func TestRegistry_SubmitInvalid(t *testing.T) {
	svc := newRegistry(t, true)

	d := validDraft()
	d.Fields.Title = ""
	d.Fields.Project = "project9"

	_, err := svc.Submit(context.Background(), d)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("ожидается ErrValidation, получено %v", err)
	}
	ve, ok := draft.AsValidationError(err)
	if !ok {
		t.Fatalf("в цепочке нет ValidationError: %v", err)
	}
	if ve.Fields["title"] != draft.CodeRequired || ve.Fields["project"] != draft.CodeProject {
		t.Errorf("Fields = %v", ve.Fields)
	}
	if acts, _ := svc.List(context.Background()); len(acts) != 3 {
		t.Errorf("невалидный черновик изменил реестр: %d актов", len(acts))
	}
}
