package service

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bigkaa/goartstore/files-module/internal/domain/model"
	"github.com/bigkaa/goartstore/files-module/internal/repository"
	"github.com/bigkaa/goartstore/files-module/internal/storage/blobstore"
	"github.com/bigkaa/goartstore/files-module/internal/storage/memstore"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fileFixture — сервис файлов поверх in-memory метаданных и blob store во временном каталоге.
type fileFixture struct {
	svc   *FileService
	files *memstore.Files
	blobs *blobstore.Store
	root  string
}

func newFileFixture(t *testing.T) *fileFixture {
	t.Helper()
	root := filepath.Join(t.TempDir(), "files_manager")
	blobs, err := blobstore.New(root)
	if err != nil {
		t.Fatalf("blobstore.New вернул ошибку: %v", err)
	}
	files := memstore.NewFiles(testLogger())
	return &fileFixture{
		svc:   NewFileService(files, blobs, NewCacheService(100, 0), testLogger()),
		files: files,
		blobs: blobs,
		root:  root,
	}
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// blobCount возвращает количество blob в корне хранилища.
func (f *fileFixture) blobCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(f.root)
	if err != nil {
		t.Fatalf("ReadDir вернул ошибку: %v", err)
	}
	return len(entries)
}

func assertValidation(t *testing.T, err error, want string) {
	t.Helper()
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("ожидалась ValidationError %q, получено %v", want, err)
	}
	if vErr.Message != want {
		t.Errorf("сообщение = %q, ожидалось %q", vErr.Message, want)
	}
}

// --- CreateEntry ---

func TestCreateEntry_Folder(t *testing.T) {
	fx := newFileFixture(t)
	owner := uuid.New()

	rec, err := fx.svc.CreateEntry(context.Background(), owner, CreateEntryParams{Name: "docs", Type: "folder"})
	if err != nil {
		t.Fatalf("CreateEntry вернул ошибку: %v", err)
	}
	if rec.ID == uuid.Nil || rec.UserID != owner {
		t.Errorf("запись = %+v, ожидались ID и владелец", rec)
	}
	if !rec.IsRoot() || rec.IsPublic {
		t.Errorf("ожидались корень и isPublic=false по умолчанию")
	}
	if rec.LocalPath != "" {
		t.Errorf("LocalPath = %q, у папки не должно быть содержимого", rec.LocalPath)
	}
	if n := fx.blobCount(t); n != 0 {
		t.Errorf("записано %d blob, для папки не ожидалось ни одного", n)
	}
}

func TestCreateEntry_FolderIgnoresData(t *testing.T) {
	fx := newFileFixture(t)

	rec, err := fx.svc.CreateEntry(context.Background(), uuid.New(),
		CreateEntryParams{Name: "docs", Type: "folder", Data: b64("ignored")})
	if err != nil {
		t.Fatalf("CreateEntry вернул ошибку: %v", err)
	}
	if rec.LocalPath != "" || fx.blobCount(t) != 0 {
		t.Error("для папки содержимое не сохраняется")
	}
}

func TestCreateEntry_FileRoundTrip(t *testing.T) {
	for _, fileType := range []string{"file", "image"} {
		t.Run(fileType, func(t *testing.T) {
			fx := newFileFixture(t)
			data := b64("Hello Webstack!\n")

			rec, err := fx.svc.CreateEntry(context.Background(), uuid.New(),
				CreateEntryParams{Name: "hello.txt", Type: fileType, Data: data, IsPublic: true})
			if err != nil {
				t.Fatalf("CreateEntry вернул ошибку: %v", err)
			}
			if rec.LocalPath == "" || filepath.Dir(rec.LocalPath) != fx.blobs.Root() {
				t.Fatalf("LocalPath = %q, ожидался путь в %s", rec.LocalPath, fx.blobs.Root())
			}

			stored, err := fx.blobs.ReadAll(rec.LocalPath)
			if err != nil {
				t.Fatalf("чтение blob: %v", err)
			}
			if got := base64.StdEncoding.EncodeToString(stored); got != data {
				t.Errorf("round-trip base64 = %q, ожидалось %q", got, data)
			}
			if !rec.IsPublic {
				t.Error("isPublic=true не сохранён")
			}
		})
	}
}

func TestCreateEntry_ValidationOrder(t *testing.T) {
	tests := []struct {
		name   string
		params CreateEntryParams
		want   string
	}{
		{"всё пусто", CreateEntryParams{}, MsgMissingName},
		{"нет имени при некорректном типе", CreateEntryParams{Type: "dir"}, MsgMissingName},
		{"нет типа", CreateEntryParams{Name: "a"}, MsgMissingType},
		{"неизвестный тип", CreateEntryParams{Name: "a", Type: "video", Data: b64("x")}, MsgMissingType},
		{"нет данных у файла", CreateEntryParams{Name: "a", Type: "file"}, MsgMissingData},
		{"нет данных у изображения", CreateEntryParams{Name: "a", Type: "image"}, MsgMissingData},
		{"данные не base64", CreateEntryParams{Name: "a", Type: "file", Data: "!!!"}, MsgInvalidData},
		{"некорректный родитель", CreateEntryParams{Name: "a", Type: "folder", ParentID: "abc"}, MsgParentNotFound},
		{"несуществующий родитель", CreateEntryParams{Name: "a", Type: "folder", ParentID: uuid.NewString()}, MsgParentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFileFixture(t)
			_, err := fx.svc.CreateEntry(context.Background(), uuid.New(), tt.params)
			assertValidation(t, err, tt.want)
			if n := fx.blobCount(t); n != 0 {
				t.Errorf("после ошибки валидации записано %d blob", n)
			}
		})
	}
}

func TestCreateEntry_MissingDataBeforeParentCheck(t *testing.T) {
	fx := newFileFixture(t)
	// Родитель не существует, но первой срабатывает проверка data
	_, err := fx.svc.CreateEntry(context.Background(), uuid.New(),
		CreateEntryParams{Name: "a", Type: "file", ParentID: uuid.NewString()})
	assertValidation(t, err, MsgMissingData)
}

func TestCreateEntry_ParentNotFolder(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	file, err := fx.svc.CreateEntry(ctx, owner, CreateEntryParams{Name: "a.txt", Type: "file", Data: b64("x")})
	if err != nil {
		t.Fatalf("CreateEntry(file) вернул ошибку: %v", err)
	}

	_, err = fx.svc.CreateEntry(ctx, owner,
		CreateEntryParams{Name: "b.txt", Type: "file", Data: b64("y"), ParentID: file.ID.String()})
	assertValidation(t, err, MsgParentNotFolder)
	if n := fx.blobCount(t); n != 1 {
		t.Errorf("blob = %d, отклонённая загрузка не должна писать содержимое", n)
	}
}

func TestCreateEntry_InFolder(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	folder, _ := fx.svc.CreateEntry(ctx, owner, CreateEntryParams{Name: "docs", Type: "folder"})
	rec, err := fx.svc.CreateEntry(ctx, owner,
		CreateEntryParams{Name: "a.txt", Type: "file", Data: b64("x"), ParentID: folder.ID.String()})
	if err != nil {
		t.Fatalf("CreateEntry вернул ошибку: %v", err)
	}
	if rec.ParentID != folder.ID {
		t.Errorf("ParentID = %s, ожидался %s", rec.ParentID, folder.ID)
	}
}

func TestCreateEntry_RootAliases(t *testing.T) {
	for _, parent := range []string{"", "0"} {
		fx := newFileFixture(t)
		rec, err := fx.svc.CreateEntry(context.Background(), uuid.New(),
			CreateEntryParams{Name: "docs", Type: "folder", ParentID: parent})
		if err != nil {
			t.Fatalf("ParentID=%q: ошибка %v", parent, err)
		}
		if !rec.IsRoot() {
			t.Errorf("ParentID=%q: запись не в корне", parent)
		}
	}

	// Другие записи нуля корнем не считаются
	for _, parent := range []string{"+0", "-0", "00", "false"} {
		fx := newFileFixture(t)
		_, err := fx.svc.CreateEntry(context.Background(), uuid.New(),
			CreateEntryParams{Name: "docs", Type: "folder", ParentID: parent})
		assertValidation(t, err, MsgParentNotFound)
	}
}

func TestCreateEntry_ParentFromCache(t *testing.T) {
	var lookups int
	repo := &mockFileRepo{
		getByIDFn: func(context.Context, uuid.UUID) (*model.FileRecord, error) {
			lookups++
			return nil, repository.ErrNotFound
		},
	}
	cache := NewCacheService(10, time.Minute)
	folder := &model.FileRecord{ID: uuid.New(), UserID: uuid.New(), Name: "docs", Type: model.FileTypeFolder}
	cache.Set(folder)
	svc := NewFileService(repo, nil, cache, testLogger())

	rec, err := svc.CreateEntry(context.Background(), folder.UserID,
		CreateEntryParams{Name: "sub", Type: "folder", ParentID: folder.ID.String()})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if rec.ParentID != folder.ID {
		t.Errorf("ParentID = %s, ожидался %s", rec.ParentID, folder.ID)
	}
	if lookups != 0 {
		t.Errorf("GetByID вызван %d раз, родитель должен браться из кэша", lookups)
	}
}

func TestCreateEntry_RepositoryError(t *testing.T) {
	repoErr := errors.New("соединение потеряно")
	repo := &mockFileRepo{
		getByIDFn: func(context.Context, uuid.UUID) (*model.FileRecord, error) {
			return nil, repoErr
		},
	}
	blobs, _ := blobstore.New(t.TempDir())
	svc := NewFileService(repo, blobs, nil, testLogger())

	_, err := svc.CreateEntry(context.Background(), uuid.New(),
		CreateEntryParams{Name: "a", Type: "folder", ParentID: uuid.NewString()})
	if !errors.Is(err, repoErr) {
		t.Errorf("ожидалась ошибка хранилища, получено %v", err)
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		t.Error("ошибка хранилища не должна быть ошибкой валидации")
	}
}

// --- ListEntries ---

func TestListEntries_PagesDoNotOverlap(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	for i := 0; i < 45; i++ {
		if _, err := fx.svc.CreateEntry(ctx, owner, CreateEntryParams{Name: "f", Type: "folder"}); err != nil {
			t.Fatalf("CreateEntry вернул ошибку: %v", err)
		}
	}

	seen := make(map[uuid.UUID]int)
	sizes := []int{20, 20, 5, 0}
	for page, want := range sizes {
		items, err := fx.svc.ListEntries(ctx, owner, nil, page)
		if err != nil {
			t.Fatalf("ListEntries(page %d) вернул ошибку: %v", page, err)
		}
		if len(items) != want {
			t.Errorf("page %d: %d записей, ожидалось %d", page, len(items), want)
		}
		for _, it := range items {
			if prev, dup := seen[it.ID]; dup {
				t.Errorf("запись %s на страницах %d и %d", it.ID, prev, page)
			}
			seen[it.ID] = page
		}
	}
}

func TestListEntries_ParentFilter(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	folder, _ := fx.svc.CreateEntry(ctx, owner, CreateEntryParams{Name: "docs", Type: "folder"})
	_, _ = fx.svc.CreateEntry(ctx, owner, CreateEntryParams{Name: "a", Type: "file", Data: b64("a"), ParentID: folder.ID.String()})
	_, _ = fx.svc.CreateEntry(ctx, owner, CreateEntryParams{Name: "b", Type: "file", Data: b64("b")})

	str := func(s string) *string { return &s }

	tests := []struct {
		name   string
		user   uuid.UUID
		parent *string
		want   int
	}{
		{"все записи владельца", owner, nil, 3},
		{"содержимое папки", owner, str(folder.ID.String()), 1},
		{"корень", owner, str("0"), 2},
		{"чужая папка — пустая страница", stranger, str(folder.ID.String()), 0},
		{"некорректный UUID — пустая страница", owner, str("not-a-uuid"), 0},
		{"несуществующая папка", owner, str(uuid.NewString()), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := fx.svc.ListEntries(ctx, tt.user, tt.parent, 0)
			if err != nil {
				t.Fatalf("ListEntries вернул ошибку: %v", err)
			}
			if items == nil {
				t.Fatal("ожидался пустой срез, а не nil")
			}
			if len(items) != tt.want {
				t.Errorf("%d записей, ожидалось %d", len(items), tt.want)
			}
		})
	}
}

func TestListEntries_PageBounds(t *testing.T) {
	var gotOffsets []int
	repo := &mockFileRepo{
		listFn: func(_ context.Context, f repository.ListFilter) ([]*model.FileRecord, error) {
			gotOffsets = append(gotOffsets, f.Offset)
			if f.Limit != PageSize {
				t.Errorf("Limit = %d, ожидался %d", f.Limit, PageSize)
			}
			return nil, nil
		},
	}
	svc := NewFileService(repo, nil, nil, testLogger())
	ctx := context.Background()

	for _, page := range []int{-3, 0, 2} {
		items, err := svc.ListEntries(ctx, uuid.New(), nil, page)
		if err != nil || items == nil {
			t.Fatalf("page %d: %v, %v", page, items, err)
		}
	}
	want := []int{0, 0, 40}
	for i := range want {
		if gotOffsets[i] != want[i] {
			t.Errorf("offset[%d] = %d, ожидался %d", i, gotOffsets[i], want[i])
		}
	}

	// Переполнение смещения не доходит до хранилища
	calls := len(gotOffsets)
	if items, err := svc.ListEntries(ctx, uuid.New(), nil, int(^uint(0)>>1)); err != nil || len(items) != 0 {
		t.Errorf("огромная страница: %v, %v", items, err)
	}
	if len(gotOffsets) != calls {
		t.Error("огромная страница не должна обращаться к хранилищу")
	}
}

// --- GetEntry / SetVisibility ---

func TestGetEntry_OwnerOnly(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	rec, _ := fx.svc.CreateEntry(ctx, owner, CreateEntryParams{Name: "docs", Type: "folder"})

	got, err := fx.svc.GetEntry(ctx, owner, rec.ID)
	if err != nil || got.ID != rec.ID {
		t.Fatalf("GetEntry(владелец) = %v, %v", got, err)
	}
	if _, err := fx.svc.GetEntry(ctx, uuid.New(), rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetEntry(чужой) = %v, ожидался ErrNotFound", err)
	}
	if _, err := fx.svc.GetEntry(ctx, owner, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetEntry(нет записи) = %v, ожидался ErrNotFound", err)
	}
}

func TestSetVisibility_RoundTrip(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	rec, _ := fx.svc.CreateEntry(ctx, owner, CreateEntryParams{Name: "a.txt", Type: "file", Data: b64("x")})
	original := rec.IsPublic

	published, err := fx.svc.SetVisibility(ctx, owner, rec.ID, true)
	if err != nil || !published.IsPublic {
		t.Fatalf("publish = %+v, %v", published, err)
	}
	stored, _ := fx.files.GetByID(ctx, rec.ID)
	if !stored.IsPublic {
		t.Error("publish не сохранён в хранилище")
	}

	unpublished, err := fx.svc.SetVisibility(ctx, owner, rec.ID, false)
	if err != nil {
		t.Fatalf("unpublish вернул ошибку: %v", err)
	}
	if unpublished.IsPublic != original {
		t.Errorf("после publish/unpublish isPublic = %v, ожидалось %v", unpublished.IsPublic, original)
	}

	if _, err := fx.svc.SetVisibility(ctx, uuid.New(), rec.ID, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetVisibility(чужой) = %v, ожидался ErrNotFound", err)
	}
}

// --- ReadContent ---

func readAll(t *testing.T, c *Content) []byte {
	t.Helper()
	defer c.Body.Close()
	b, err := io.ReadAll(c.Body)
	if err != nil {
		t.Fatalf("чтение содержимого: %v", err)
	}
	return b
}

func TestReadContent_Visibility(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	rec, _ := fx.svc.CreateEntry(ctx, owner, CreateEntryParams{Name: "hello.html", Type: "file", Data: b64("hello")})

	// Приватная запись: аноним и чужой получают ErrNotFound
	for name, viewer := range map[string]uuid.UUID{"аноним": uuid.Nil, "чужой": uuid.New()} {
		if _, err := fx.svc.ReadContent(ctx, viewer, rec.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: %v, ожидался ErrNotFound", name, err)
		}
	}

	// Владелец читает приватное содержимое
	c, err := fx.svc.ReadContent(ctx, owner, rec.ID)
	if err != nil {
		t.Fatalf("владелец: %v", err)
	}
	if got := string(readAll(t, c)); got != "hello" {
		t.Errorf("содержимое = %q", got)
	}
	if c.ContentType != "text/html; charset=utf-8" {
		t.Errorf("ContentType = %q", c.ContentType)
	}

	// После publish аноним видит содержимое
	if _, err := fx.svc.SetVisibility(ctx, owner, rec.ID, true); err != nil {
		t.Fatalf("publish: %v", err)
	}
	c, err = fx.svc.ReadContent(ctx, uuid.Nil, rec.ID)
	if err != nil {
		t.Fatalf("аноним после publish: %v", err)
	}
	if got := string(readAll(t, c)); got != "hello" {
		t.Errorf("содержимое = %q", got)
	}

	// После unpublish снова скрыто
	_, _ = fx.svc.SetVisibility(ctx, owner, rec.ID, false)
	if _, err := fx.svc.ReadContent(ctx, uuid.Nil, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("аноним после unpublish: %v, ожидался ErrNotFound", err)
	}
}

// pausingFiles приостанавливает первый GetByID после чтения записи,
// пока тест не закроет release.
type pausingFiles struct {
	*memstore.Files
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (p *pausingFiles) GetByID(ctx context.Context, id uuid.UUID) (*model.FileRecord, error) {
	rec, err := p.Files.GetByID(ctx, id)
	p.once.Do(func() {
		close(p.entered)
		<-p.release
	})
	return rec, err
}

func TestReadContent_UnpublishDuringLookup(t *testing.T) {
	ctx := context.Background()
	blobs, err := blobstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("blobstore.New: %v", err)
	}
	files := &pausingFiles{
		Files:   memstore.NewFiles(testLogger()),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := NewFileService(files, blobs, NewCacheService(100, time.Minute), testLogger())

	owner := uuid.New()
	rec, err := svc.CreateEntry(ctx, owner, CreateEntryParams{Name: "a.png", Type: "image", Data: b64("png"), IsPublic: true})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		c, err := svc.ReadContent(ctx, uuid.Nil, rec.ID)
		if err == nil {
			c.Body.Close()
		}
		done <- err
	}()

	<-files.entered
	if _, err := svc.SetVisibility(ctx, owner, rec.ID, false); err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	close(files.release)

	// Запрос, прочитавший запись до unpublish, завершается успешно
	if err := <-done; err != nil {
		t.Fatalf("начатый до unpublish запрос: %v", err)
	}

	if _, err := svc.ReadContent(ctx, uuid.Nil, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("аноним после unpublish: %v, ожидался ErrNotFound", err)
	}
}

func TestReadContent_VisibilitySharedBetweenInstances(t *testing.T) {
	ctx := context.Background()
	blobs, err := blobstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("blobstore.New: %v", err)
	}
	files := memstore.NewFiles(testLogger())
	a := NewFileService(files, blobs, NewCacheService(100, time.Minute), testLogger())
	b := NewFileService(files, blobs, NewCacheService(100, time.Minute), testLogger())

	owner := uuid.New()
	rec, err := a.CreateEntry(ctx, owner, CreateEntryParams{Name: "a.png", Type: "image", Data: b64("png"), IsPublic: true})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	c, err := b.ReadContent(ctx, uuid.Nil, rec.ID)
	if err != nil {
		t.Fatalf("экземпляр b до unpublish: %v", err)
	}
	c.Body.Close()

	if _, err := a.SetVisibility(ctx, owner, rec.ID, false); err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if _, err := b.ReadContent(ctx, uuid.Nil, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("экземпляр b после unpublish на a: %v, ожидался ErrNotFound", err)
	}
}

func TestReadContent_Folder(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	folder, _ := fx.svc.CreateEntry(ctx, owner, CreateEntryParams{Name: "docs", Type: "folder", IsPublic: true})
	if _, err := fx.svc.ReadContent(ctx, owner, folder.ID); !errors.Is(err, ErrFolderContent) {
		t.Errorf("папка: %v, ожидался ErrFolderContent", err)
	}
}

func TestReadContent_PrivateFolderIsNotFound(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()

	folder, _ := fx.svc.CreateEntry(ctx, uuid.New(), CreateEntryParams{Name: "docs", Type: "folder"})
	// Проверка видимости выполняется раньше проверки типа
	if _, err := fx.svc.ReadContent(ctx, uuid.Nil, folder.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("приватная папка: %v, ожидался ErrNotFound", err)
	}
}

func TestReadContent_BlobMissing(t *testing.T) {
	fx := newFileFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	rec, _ := fx.svc.CreateEntry(ctx, owner, CreateEntryParams{Name: "a.png", Type: "image", Data: b64("png"), IsPublic: true})
	if err := os.Remove(rec.LocalPath); err != nil {
		t.Fatalf("удаление blob: %v", err)
	}

	if _, err := fx.svc.ReadContent(ctx, owner, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("blob отсутствует: %v, ожидался ErrNotFound", err)
	}
}

func TestReadContent_UnknownID(t *testing.T) {
	fx := newFileFixture(t)
	if _, err := fx.svc.ReadContent(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("нет записи: %v, ожидался ErrNotFound", err)
	}
}

func TestReadContent_StoreErrorIsNotFound(t *testing.T) {
	repo := &mockFileRepo{
		getByIDFn: func(context.Context, uuid.UUID) (*model.FileRecord, error) {
			return nil, errors.New("таймаут")
		},
	}
	svc := NewFileService(repo, nil, nil, testLogger())
	if _, err := svc.ReadContent(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("ошибка хранилища: %v, ожидался ErrNotFound", err)
	}
}

func TestContentTypeByName(t *testing.T) {
	tests := map[string]string{
		"image.png":  "image/png",
		"photo.JPG":  "image/jpeg",
		"README":     defaultContentType,
		"data.zzzzz": defaultContentType,
	}
	for name, want := range tests {
		if got := ContentTypeByName(name); got != want {
			t.Errorf("ContentTypeByName(%q) = %q, ожидался %q", name, got, want)
		}
	}
}

// --- Mock repository ---

// mockFileRepo — мок FileRepository для unit-тестов путей с ошибками.
type mockFileRepo struct {
	getByIDFn func(ctx context.Context, id uuid.UUID) (*model.FileRecord, error)
	listFn    func(ctx context.Context, filter repository.ListFilter) ([]*model.FileRecord, error)
}

func (m *mockFileRepo) Create(context.Context, *model.FileRecord) error { return nil }

func (m *mockFileRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.FileRecord, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockFileRepo) GetByIDAndOwner(context.Context, uuid.UUID, uuid.UUID) (*model.FileRecord, error) {
	return nil, repository.ErrNotFound
}

func (m *mockFileRepo) List(ctx context.Context, filter repository.ListFilter) ([]*model.FileRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockFileRepo) SetPublic(context.Context, uuid.UUID, uuid.UUID, bool) (*model.FileRecord, error) {
	return nil, repository.ErrNotFound
}

func (m *mockFileRepo) Count(context.Context) (int64, error) { return 0, nil }
