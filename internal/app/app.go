// Package app ties the API client, the notification queue and the
// validators together behind the operations the CLI exposes.
package app

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"github.com/astra-bc/kansatsu/internal/api"
	"github.com/astra-bc/kansatsu/internal/core/config"
	"github.com/astra-bc/kansatsu/internal/core/logging"
	"github.com/astra-bc/kansatsu/internal/core/notify"
	"github.com/astra-bc/kansatsu/internal/core/record"
	"github.com/astra-bc/kansatsu/internal/core/validate"
)

// Notification texts used when the API reply carries no message.
const (
	MsgInvalidForm = "入力内容に誤りがあります"
	MsgSaved       = "記録を保存しました"
	MsgDeleted     = "記録を削除しました"
	MsgUploaded    = "画像をアップロードしました"
)

// API is the part of *api.Client the application uses.
type API interface {
	Plants(ctx context.Context) ([]record.Plant, error)
	Records(ctx context.Context) ([]record.Record, error)
	TodayRecord(ctx context.Context, forceDate string) (record.Today, error)
	Record(ctx context.Context, id int64) (record.Record, error)
	CreateRecord(ctx context.Context, in record.Input) (record.Saved, error)
	UpdateRecord(ctx context.Context, id int64, in record.Input) (record.Saved, error)
	DeleteRecord(ctx context.Context, id int64) (record.Saved, error)
	Upload(ctx context.Context, path string) (record.Upload, error)
	ImageURL(filename string) string
	URL(path string) string
}

var _ API = (*api.Client)(nil)

// App is the central entry point for kansatsu operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	API           API
	Notifications *notify.Queue
	Config        *config.Config

	log zerolog.Logger
}

// New constructs an App from explicit dependencies.
func New(client API, queue *notify.Queue, cfg *config.Config) *App {
	return &App{
		API:           client,
		Notifications: queue,
		Config:        cfg,
		log:           logging.Component("app"),
	}
}

// Close releases the notification queue.
func (a *App) Close() {
	if a.Notifications != nil {
		a.Notifications.Close()
	}
}

// SubmitRecord validates form, uploads any plant images, and creates the
// record. The outcome is also pushed to the notification queue. Validation
// failures are returned as criterio field errors.
func (a *App) SubmitRecord(ctx context.Context, form validate.RecordForm) (record.Saved, error) {
	in, err := a.prepare(ctx, form)
	if err != nil {
		return record.Saved{}, err
	}

	saved, err := a.API.CreateRecord(ctx, in)
	if err != nil {
		return record.Saved{}, a.fail(ctx, "create record", err)
	}

	a.Notifications.ShowSuccess(orDefault(saved.Message, MsgSaved))
	return saved, nil
}

// UpdateRecord is SubmitRecord for an existing record. date, when set,
// moves the record to another day.
func (a *App) UpdateRecord(ctx context.Context, id int64, date string, form validate.RecordForm) (record.Saved, error) {
	in, err := a.prepare(ctx, form)
	if err != nil {
		return record.Saved{}, err
	}
	in.Date = date

	saved, err := a.API.UpdateRecord(ctx, id, in)
	if err != nil {
		return record.Saved{}, a.fail(ctx, "update record", err)
	}

	a.Notifications.ShowSuccess(orDefault(saved.Message, MsgSaved))
	return saved, nil
}

// DeleteRecord removes a record and notifies the outcome.
func (a *App) DeleteRecord(ctx context.Context, id int64) (record.Saved, error) {
	saved, err := a.API.DeleteRecord(ctx, id)
	if err != nil {
		return record.Saved{}, a.fail(ctx, "delete record", err)
	}

	a.Notifications.ShowSuccess(orDefault(saved.Message, MsgDeleted))
	return saved, nil
}

// UploadImage checks the file at path with validate.Image and uploads it.
func (a *App) UploadImage(ctx context.Context, path string) (record.Upload, error) {
	file, err := ImageFile(path)
	if err != nil {
		return record.Upload{}, a.fail(ctx, "inspect image", err)
	}

	up, err := a.upload(ctx, file)
	if err != nil {
		return record.Upload{}, err
	}

	a.Notifications.ShowSuccess(MsgUploaded)
	return up, nil
}

// ValidateForm validates form the same way SubmitRecord does, reading any
// image paths to fill in their type and size. Nothing is sent.
func (a *App) ValidateForm(ctx context.Context, form validate.RecordForm) (validate.FormResult, error) {
	form, err := a.inspectImages(ctx, form)
	if err != nil {
		return validate.FormResult{}, err
	}
	return validate.ValidateRecordForm(form), nil
}

// prepare validates form and turns it into the request body, uploading
// images on the way.
func (a *App) prepare(ctx context.Context, form validate.RecordForm) (record.Input, error) {
	form, err := a.inspectImages(ctx, form)
	if err != nil {
		return record.Input{}, err
	}

	res := validate.ValidateRecordForm(form)
	if !res.IsValid {
		a.Notifications.ShowError(MsgInvalidForm)
		return record.Input{}, res.Err()
	}

	weather, ok := record.FromJapanese(strings.TrimSpace(form.Weather))
	if !ok {
		a.Notifications.ShowError(validate.ErrWeather.Error())
		return record.Input{}, criterio.NewFieldErrors("weather", validate.ErrWeather)
	}

	temp, _ := validate.ParseNumber(form.Temperature)
	in := record.Input{
		Weather:      weather,
		Temperature:  temp,
		PlantRecords: make(map[string]record.PlantInput, len(form.PlantRecords)),
	}

	ids := make([]string, 0, len(form.PlantRecords))
	for id := range form.PlantRecords {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		plant := form.PlantRecords[id]
		entry := record.PlantInput{Height: plant.Height, Comment: plant.Comment}

		if plant.Image != nil && plant.Image.Path != "" {
			up, err := a.upload(ctx, *plant.Image)
			if err != nil {
				return record.Input{}, err
			}
			entry.ImageFilename = up.Filename
		}

		in.PlantRecords[id] = entry
	}

	return in, nil
}

// inspectImages fills in name, type and size for images that only carry a
// path, so the form validators see the real file.
func (a *App) inspectImages(ctx context.Context, form validate.RecordForm) (validate.RecordForm, error) {
	if len(form.PlantRecords) == 0 {
		return form, nil
	}

	plants := make(map[string]validate.PlantForm, len(form.PlantRecords))
	for id, plant := range form.PlantRecords {
		if plant.Image != nil && plant.Image.Path != "" && plant.Image.ContentType == "" {
			file, err := ImageFile(plant.Image.Path)
			if err != nil {
				return form, a.fail(ctx, "inspect image", err)
			}
			plant.Image = &file
		}
		plants[id] = plant
	}
	form.PlantRecords = plants
	return form, nil
}

func (a *App) upload(ctx context.Context, file validate.File) (record.Upload, error) {
	if err := validate.Image(&file); err != nil {
		a.Notifications.ShowError(err.Error())
		return record.Upload{}, err
	}

	up, err := a.API.Upload(ctx, file.Path)
	if err != nil {
		return record.Upload{}, a.fail(ctx, "upload "+file.Name, err)
	}
	return up, nil
}

// fail pushes the user-facing message for err and returns it wrapped.
func (a *App) fail(ctx context.Context, op string, err error) error {
	msg := err.Error()
	var callErr *api.CallError
	if errors.As(err, &callErr) {
		msg = callErr.Message
	}

	a.log.Warn().Ctx(ctx).Err(err).Str("op", op).Msg("operation failed")
	a.Notifications.ShowError(msg)
	return fmt.Errorf("%s: %w", op, err)
}

// ImageFile describes the file at path for validate.Image. The content
// type comes from the extension, falling back to content sniffing.
func ImageFile(path string) (validate.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return validate.File{}, err
	}
	if info.IsDir() {
		return validate.File{}, fmt.Errorf("%s is a directory", path)
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		contentType, err = sniff(path)
		if err != nil {
			return validate.File{}, err
		}
	}

	return validate.File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Path:        path,
	}, nil
}

func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return http.DetectContentType(head[:n]), nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
