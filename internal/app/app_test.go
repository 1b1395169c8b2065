package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astra-bc/kansatsu/internal/api"
	"github.com/astra-bc/kansatsu/internal/core/config"
	"github.com/astra-bc/kansatsu/internal/core/notify"
	"github.com/astra-bc/kansatsu/internal/core/record"
	"github.com/astra-bc/kansatsu/internal/core/validate"
)

type fakeAPI struct {
	created  []record.Input
	updated  map[int64]record.Input
	uploads  []string
	deleted  []int64
	saveErr  error
	uploadFn func(path string) (record.Upload, error)
}

func (f *fakeAPI) Plants(context.Context) ([]record.Plant, error)   { return nil, nil }
func (f *fakeAPI) Records(context.Context) ([]record.Record, error) { return nil, nil }
func (f *fakeAPI) TodayRecord(context.Context, string) (record.Today, error) {
	return record.Today{}, nil
}
func (f *fakeAPI) Record(context.Context, int64) (record.Record, error) { return record.Record{}, nil }
func (f *fakeAPI) ImageURL(name string) string                          { return "/api/images/" + name }
func (f *fakeAPI) URL(path string) string                               { return api.ResolveURL("http://host/api", path) }

func (f *fakeAPI) CreateRecord(_ context.Context, in record.Input) (record.Saved, error) {
	if f.saveErr != nil {
		return record.Saved{}, f.saveErr
	}
	f.created = append(f.created, in)
	return record.Saved{Message: "記録を保存しました", ID: 7}, nil
}

func (f *fakeAPI) UpdateRecord(_ context.Context, id int64, in record.Input) (record.Saved, error) {
	if f.updated == nil {
		f.updated = make(map[int64]record.Input)
	}
	f.updated[id] = in
	return record.Saved{ID: id}, nil
}

func (f *fakeAPI) DeleteRecord(_ context.Context, id int64) (record.Saved, error) {
	if f.saveErr != nil {
		return record.Saved{}, f.saveErr
	}
	f.deleted = append(f.deleted, id)
	return record.Saved{Message: "記録を削除しました"}, nil
}

func (f *fakeAPI) Upload(_ context.Context, path string) (record.Upload, error) {
	f.uploads = append(f.uploads, path)
	if f.uploadFn != nil {
		return f.uploadFn(path)
	}
	return record.Upload{Filename: "up-" + filepath.Base(path)}, nil
}

func newTestApp(t *testing.T, fake *fakeAPI) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	a := New(fake, notify.NewQueue(notify.WithDurations(notify.Durations{})), &cfg)
	t.Cleanup(a.Close)
	return a
}

func writeImage(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	data := make([]byte, size)
	copy(data, "\x89PNG\r\n\x1a\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func lastNotification(t *testing.T, q *notify.Queue) notify.Notification {
	t.Helper()
	all := q.Notifications()
	require.NotEmpty(t, all)
	return all[len(all)-1]
}

func TestSubmitRecord_success(t *testing.T) {
	fake := &fakeAPI{}
	a := newTestApp(t, fake)
	img := writeImage(t, "sunflower.png", 64)

	saved, err := a.SubmitRecord(context.Background(), validate.RecordForm{
		Weather:     "晴れ",
		Temperature: "23.5",
		PlantRecords: map[string]validate.PlantForm{
			"1": {Height: "12", Comment: "元気", Image: &validate.File{Path: img}},
			"2": {},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), saved.ID)

	require.Len(t, fake.created, 1)
	in := fake.created[0]
	assert.Equal(t, record.WeatherSunny, in.Weather)
	assert.InDelta(t, 23.5, in.Temperature, 1e-9)
	assert.Equal(t, record.PlantInput{Height: "12", Comment: "元気", ImageFilename: "up-sunflower.png"}, in.PlantRecords["1"])
	assert.Equal(t, record.PlantInput{}, in.PlantRecords["2"])
	assert.Equal(t, []string{img}, fake.uploads)

	n := lastNotification(t, a.Notifications)
	assert.Equal(t, notify.KindSuccess, n.Kind)
	assert.Equal(t, "記録を保存しました", n.Message)
}

func TestSubmitRecord_invalid_form(t *testing.T) {
	fake := &fakeAPI{}
	a := newTestApp(t, fake)

	_, err := a.SubmitRecord(context.Background(), validate.RecordForm{Temperature: "10"})

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "weather", fieldErrs[0].Field)
	assert.Empty(t, fake.created)

	n := lastNotification(t, a.Notifications)
	assert.Equal(t, notify.KindError, n.Kind)
	assert.Equal(t, MsgInvalidForm, n.Message)
}

func TestSubmitRecord_unknown_weather(t *testing.T) {
	fake := &fakeAPI{}
	a := newTestApp(t, fake)

	_, err := a.SubmitRecord(context.Background(), validate.RecordForm{Weather: "雪", Temperature: "0"})

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "weather", fieldErrs[0].Field)
	assert.Equal(t, validate.ErrWeather.Error(), lastNotification(t, a.Notifications).Message)
}

func TestSubmitRecord_image_too_large(t *testing.T) {
	fake := &fakeAPI{}
	a := newTestApp(t, fake)
	img := writeImage(t, "big.png", validate.MaxImageSize+1)

	_, err := a.SubmitRecord(context.Background(), validate.RecordForm{
		Weather:      "sunny",
		Temperature:  "20",
		PlantRecords: map[string]validate.PlantForm{"3": {Image: &validate.File{Path: img}}},
	})

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "plants.3.image", fieldErrs[0].Field)
	assert.Empty(t, fake.uploads)
}

func TestSubmitRecord_api_error(t *testing.T) {
	fake := &fakeAPI{saveErr: &api.CallError{Message: "既に今日の記録があります", Status: 400}}
	a := newTestApp(t, fake)

	_, err := a.SubmitRecord(context.Background(), validate.RecordForm{Weather: "rainy", Temperature: "15"})

	var callErr *api.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, 400, callErr.Status)

	n := lastNotification(t, a.Notifications)
	assert.Equal(t, notify.KindError, n.Kind)
	assert.Equal(t, "既に今日の記録があります", n.Message)
}

func TestSubmitRecord_upload_error(t *testing.T) {
	fake := &fakeAPI{uploadFn: func(string) (record.Upload, error) {
		return record.Upload{}, &api.CallError{Message: api.MsgNetwork}
	}}
	a := newTestApp(t, fake)
	img := writeImage(t, "leaf.png", 16)

	_, err := a.SubmitRecord(context.Background(), validate.RecordForm{
		Weather:      "cloudy",
		Temperature:  "18",
		PlantRecords: map[string]validate.PlantForm{"1": {Image: &validate.File{Path: img}}},
	})

	require.Error(t, err)
	assert.Empty(t, fake.created)
	assert.Equal(t, api.MsgNetwork, lastNotification(t, a.Notifications).Message)
}

func TestUpdateRecord_sets_date(t *testing.T) {
	fake := &fakeAPI{}
	a := newTestApp(t, fake)

	_, err := a.UpdateRecord(context.Background(), 4, "2024-05-02", validate.RecordForm{Weather: "thunder", Temperature: "30"})
	require.NoError(t, err)

	in := fake.updated[4]
	assert.Equal(t, "2024-05-02", in.Date)
	assert.Equal(t, record.WeatherThunder, in.Weather)
	assert.Equal(t, MsgSaved, lastNotification(t, a.Notifications).Message)
}

func TestDeleteRecord(t *testing.T) {
	fake := &fakeAPI{}
	a := newTestApp(t, fake)

	saved, err := a.DeleteRecord(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "記録を削除しました", saved.Message)
	assert.Equal(t, []int64{9}, fake.deleted)

	fake.saveErr = errors.New("boom")
	_, err = a.DeleteRecord(context.Background(), 10)
	require.Error(t, err)
	assert.Equal(t, "boom", lastNotification(t, a.Notifications).Message)
}

func TestUploadImage_rejects_non_image(t *testing.T) {
	fake := &fakeAPI{}
	a := newTestApp(t, fake)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, err := a.UploadImage(context.Background(), path)
	require.ErrorIs(t, err, validate.ErrImageType)
	assert.Empty(t, fake.uploads)
}

func TestUploadImage_success(t *testing.T) {
	fake := &fakeAPI{}
	a := newTestApp(t, fake)
	img := writeImage(t, "a.png", 32)

	up, err := a.UploadImage(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, "up-a.png", up.Filename)
	assert.Equal(t, MsgUploaded, lastNotification(t, a.Notifications).Message)
}

func TestImageFile(t *testing.T) {
	img := writeImage(t, "noext", 32)

	f, err := ImageFile(img)
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType)
	assert.Equal(t, int64(32), f.Size)
	assert.Equal(t, "noext", f.Name)

	_, err = ImageFile(t.TempDir())
	assert.Error(t, err)
}

func TestValidateForm(t *testing.T) {
	a := newTestApp(t, &fakeAPI{})
	img := writeImage(t, "big.png", validate.MaxImageSize+10)

	res, err := a.ValidateForm(context.Background(), validate.RecordForm{
		Weather:      "晴れ",
		Temperature:  "61",
		PlantRecords: map[string]validate.PlantForm{"1": {Height: "5", Image: &validate.File{Path: img}}},
	})
	require.NoError(t, err)
	assert.False(t, res.IsValid)
	assert.Equal(t, map[string]string{
		"temperature":    "気温は60以下で入力してください",
		"plants.1.image": validate.ErrImageSize.Error(),
	}, res.FieldMessages())

	_, err = a.ValidateForm(context.Background(), validate.RecordForm{
		PlantRecords: map[string]validate.PlantForm{"1": {Image: &validate.File{Path: filepath.Join(t.TempDir(), "gone.png")}}},
	})
	assert.Error(t, err)
}
