package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"translateapi/internal/extractor"
	"translateapi/internal/lock"
	"translateapi/internal/model"
	"translateapi/internal/regenerator"
	"translateapi/internal/repository"
	repoMocks "translateapi/internal/repository/mocks"
	"translateapi/internal/storage"
	storeMocks "translateapi/internal/storage/mocks"
)

const (
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimePDF  = "application/pdf"
)

type mockExtractor struct{ mock.Mock }

func (m *mockExtractor) Extract(ctx context.Context, mimeType string, data []byte) (extractor.Result, error) {
	args := m.Called(ctx, mimeType, data)
	return args.Get(0).(extractor.Result), args.Error(1)
}

type mockTranslator struct{ mock.Mock }

func (m *mockTranslator) Translate(ctx context.Context, text, language string) (string, error) {
	args := m.Called(ctx, text, language)
	return args.String(0), args.Error(1)
}

type mockRenderer struct{ mock.Mock }

func (m *mockRenderer) Render(family extractor.Family, text string) (regenerator.Output, error) {
	args := m.Called(family, text)
	return args.Get(0).(regenerator.Output), args.Error(1)
}

type pipeline struct {
	jobs  *repoMocks.MockTranslationRepository
	users *repoMocks.MockUserRepository
	store *storeMocks.MockStorage
	ext   *mockExtractor
	tr    *mockTranslator
	rd    *mockRenderer
}

func newPipeline() *pipeline {
	return &pipeline{
		jobs:  new(repoMocks.MockTranslationRepository),
		users: new(repoMocks.MockUserRepository),
		store: new(storeMocks.MockStorage),
		ext:   new(mockExtractor),
		tr:    new(mockTranslator),
		rd:    new(mockRenderer),
	}
}

func (p *pipeline) service(locker lock.Locker, opts TranslationOptions) *translationService {
	if opts.UploadsPrefix == "" {
		opts.UploadsPrefix = "uploads"
	}
	if opts.OutputsPrefix == "" {
		opts.OutputsPrefix = "outputs"
	}
	return NewTranslationService(p.jobs, p.users, p.store, p.ext, p.tr, p.rd, locker, opts, zerolog.Nop()).(*translationService)
}

func (p *pipeline) assertExpectations(t *testing.T) {
	p.jobs.AssertExpectations(t)
	p.users.AssertExpectations(t)
	p.store.AssertExpectations(t)
	p.ext.AssertExpectations(t)
	p.tr.AssertExpectations(t)
	p.rd.AssertExpectations(t)
}

const (
	jobOne     = "0b7c7f5e-3c1e-4d8a-9a41-5f0f2d6c1a01"
	jobTwo     = "0b7c7f5e-3c1e-4d8a-9a41-5f0f2d6c1a02"
	userOne    = "6e2d1c4b-8f3a-4b7e-a1d2-3c4b5a6f7e01"
	intruderID = "6e2d1c4b-8f3a-4b7e-a1d2-3c4b5a6f7e02"
	missingID  = "9f8e7d6c-5b4a-4c3d-8e2f-1a0b9c8d7e6f"
)

func wordJob() *model.TranslationJob {
	return &model.TranslationJob{
		ID: jobOne, UserID: userOne, FileName: "170-a.docx", FilePath: "uploads/170-a.docx",
		FileType: mimeDOCX, FileSize: 2048, ToLanguage: "fr",
	}
}

func pdfJob() *model.TranslationJob {
	return &model.TranslationJob{
		ID: jobTwo, UserID: userOne, FileName: "170-b.pdf", FilePath: "uploads/170-b.pdf",
		FileType: mimePDF, FileSize: 4096, ToLanguage: "de",
	}
}

func quotaUser(chars int64) *model.User {
	return &model.User{ID: userOne, CharacterLimit: chars, PageLimit: 20, FileSizeLimit: 1 << 20}
}

func source() io.ReadCloser {
	return io.NopCloser(strings.NewReader("raw bytes"))
}

func (p *pipeline) expectSource(job *model.TranslationJob, res extractor.Result) {
	p.store.On("Get", mock.Anything, job.FilePath).Return(source(), storage.ObjectInfo{}, nil)
	p.ext.On("Extract", mock.Anything, job.FileType, []byte("raw bytes")).Return(res, nil)
}

func TestTranslationService_Translate(t *testing.T) {
	text50 := strings.Repeat("a", 50)
	text2000 := strings.Repeat("b", 2000)
	docxOut := regenerator.Output{Data: []byte("docx"), ContentType: regenerator.ContentTypeDOCX, Ext: ".docx"}
	pdfOut := regenerator.Output{Data: []byte("pdf"), ContentType: regenerator.ContentTypePDF, Ext: ".pdf"}

	tests := []struct {
		name       string
		jobID      string
		userID     string
		opts       TranslationOptions
		setupMocks func(p *pipeline)
		wantErr    error
		wantMsg    string
		wantPath   string
	}{
		{
			name:  "word document within quota",
			jobID: jobOne,
			setupMocks: func(p *pipeline) {
				job := wordJob()
				p.jobs.On("FindByID", mock.Anything, jobOne).Return(job, nil)
				p.users.On("FindByID", mock.Anything, userOne).Return(quotaUser(1000), nil)
				p.expectSource(job, extractor.Result{Text: text50})
				p.users.On("ConsumeCharacters", mock.Anything, userOne, int64(50)).Return(int64(950), nil)
				p.tr.On("Translate", mock.Anything, text50, "fr").Return("translated", nil)
				p.rd.On("Render", extractor.FamilyWord, "translated").Return(docxOut, nil)
				p.store.On("Put", mock.Anything, "outputs/170-a.docx_translated.docx", mock.Anything, storage.PutObjectOptions{
					Size: 4, ContentType: regenerator.ContentTypeDOCX,
				}).Return(storage.ObjectInfo{}, nil)
				p.jobs.On("MarkTranslated", mock.Anything, jobOne, "outputs/170-a.docx_translated.docx").Return(nil)
			},
			wantPath: "outputs/170-a.docx_translated.docx",
		},
		{
			name:  "characters counted as code points",
			jobID: jobOne,
			setupMocks: func(p *pipeline) {
				job := wordJob()
				p.jobs.On("FindByID", mock.Anything, jobOne).Return(job, nil)
				p.users.On("FindByID", mock.Anything, userOne).Return(quotaUser(1000), nil)
				p.expectSource(job, extractor.Result{Text: "héllo 世界"})
				p.users.On("ConsumeCharacters", mock.Anything, userOne, int64(8)).Return(int64(992), nil)
				p.tr.On("Translate", mock.Anything, "héllo 世界", "fr").Return("ok", nil)
				p.rd.On("Render", extractor.FamilyWord, "ok").Return(docxOut, nil)
				p.store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
				p.jobs.On("MarkTranslated", mock.Anything, jobOne, mock.Anything).Return(nil)
			},
			wantPath: "outputs/170-a.docx_translated.docx",
		},
		{
			name:  "word document over character quota",
			jobID: jobOne,
			setupMocks: func(p *pipeline) {
				job := wordJob()
				p.jobs.On("FindByID", mock.Anything, jobOne).Return(job, nil)
				p.users.On("FindByID", mock.Anything, userOne).Return(quotaUser(1000), nil)
				p.expectSource(job, extractor.Result{Text: text2000})
				p.users.On("ConsumeCharacters", mock.Anything, userOne, int64(2000)).Return(int64(0), repository.ErrInsufficientQuota)
			},
			wantErr: ErrQuotaExceeded,
			wantMsg: MsgTooManyCharacters,
		},
		{
			name:  "job does not exist",
			jobID: missingID,
			setupMocks: func(p *pipeline) {
				p.jobs.On("FindByID", mock.Anything, missingID).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
			wantMsg: MsgJobNotFound,
		},
		{
			name:    "empty job id",
			jobID:   "",
			wantErr: ErrValidation,
		},
		{
			name:    "job id is not a uuid",
			jobID:   "abc",
			wantErr: ErrNotFound,
			wantMsg: MsgJobNotFound,
		},
		{
			name:    "caller id is not a uuid",
			jobID:   jobOne,
			userID:  "abc",
			wantErr: ErrNotFound,
			wantMsg: MsgJobNotFound,
		},
		{
			name:   "job owned by someone else",
			jobID:  jobOne,
			userID: intruderID,
			setupMocks: func(p *pipeline) {
				p.jobs.On("FindByID", mock.Anything, jobOne).Return(wordJob(), nil)
			},
			wantErr: ErrNotFound,
		},
		{
			name:  "owner missing",
			jobID: jobOne,
			setupMocks: func(p *pipeline) {
				p.jobs.On("FindByID", mock.Anything, jobOne).Return(wordJob(), nil)
				p.users.On("FindByID", mock.Anything, userOne).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
			wantMsg: MsgUserNotFound,
		},
		{
			name:  "file size over limit",
			jobID: jobOne,
			setupMocks: func(p *pipeline) {
				p.jobs.On("FindByID", mock.Anything, jobOne).Return(wordJob(), nil)
				u := quotaUser(1000)
				u.FileSizeLimit = 1024
				p.users.On("FindByID", mock.Anything, userOne).Return(u, nil)
			},
			wantErr: ErrQuotaExceeded,
			wantMsg: MsgFileSizeOverLimit,
		},
		{
			name:  "unsupported type",
			jobID: jobOne,
			setupMocks: func(p *pipeline) {
				job := wordJob()
				job.FileType = "text/plain"
				p.jobs.On("FindByID", mock.Anything, jobOne).Return(job, nil)
				p.users.On("FindByID", mock.Anything, userOne).Return(quotaUser(1000), nil)
			},
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:  "corrupt source",
			jobID: jobOne,
			setupMocks: func(p *pipeline) {
				job := wordJob()
				p.jobs.On("FindByID", mock.Anything, jobOne).Return(job, nil)
				p.users.On("FindByID", mock.Anything, userOne).Return(quotaUser(1000), nil)
				p.store.On("Get", mock.Anything, job.FilePath).Return(source(), storage.ObjectInfo{}, nil)
				p.ext.On("Extract", mock.Anything, mimeDOCX, mock.Anything).Return(extractor.Result{}, extractor.ErrCorrupt)
			},
			wantErr: ErrExtraction,
		},
		{
			name:  "source file missing",
			jobID: jobOne,
			setupMocks: func(p *pipeline) {
				job := wordJob()
				p.jobs.On("FindByID", mock.Anything, jobOne).Return(job, nil)
				p.users.On("FindByID", mock.Anything, userOne).Return(quotaUser(1000), nil)
				p.store.On("Get", mock.Anything, job.FilePath).Return(nil, storage.ObjectInfo{}, storage.ErrNotFound)
			},
			wantErr: ErrExtraction,
		},
		{
			name:  "translation service fails and quota is refunded",
			jobID: jobOne,
			setupMocks: func(p *pipeline) {
				job := wordJob()
				p.jobs.On("FindByID", mock.Anything, jobOne).Return(job, nil)
				p.users.On("FindByID", mock.Anything, userOne).Return(quotaUser(1000), nil)
				p.expectSource(job, extractor.Result{Text: text50})
				p.users.On("ConsumeCharacters", mock.Anything, userOne, int64(50)).Return(int64(950), nil)
				p.tr.On("Translate", mock.Anything, text50, "fr").Return("", errors.New("upstream 503"))
				p.users.On("RefundCharacters", mock.Anything, userOne, int64(50)).Return(nil)
			},
			wantErr: ErrTranslationService,
		},
		{
			name:  "render fails and quota is refunded",
			jobID: jobOne,
			setupMocks: func(p *pipeline) {
				job := wordJob()
				p.jobs.On("FindByID", mock.Anything, jobOne).Return(job, nil)
				p.users.On("FindByID", mock.Anything, userOne).Return(quotaUser(1000), nil)
				p.expectSource(job, extractor.Result{Text: text50})
				p.users.On("ConsumeCharacters", mock.Anything, userOne, int64(50)).Return(int64(950), nil)
				p.tr.On("Translate", mock.Anything, text50, "fr").Return("translated", nil)
				p.rd.On("Render", extractor.FamilyWord, "translated").Return(regenerator.Output{}, regenerator.ErrRegeneration)
				p.users.On("RefundCharacters", mock.Anything, userOne, int64(50)).Return(nil)
			},
			wantErr: ErrRegeneration,
		},
		{
			name:  "output write fails and quota is refunded",
			jobID: jobOne,
			setupMocks: func(p *pipeline) {
				job := wordJob()
				p.jobs.On("FindByID", mock.Anything, jobOne).Return(job, nil)
				p.users.On("FindByID", mock.Anything, userOne).Return(quotaUser(1000), nil)
				p.expectSource(job, extractor.Result{Text: text50})
				p.users.On("ConsumeCharacters", mock.Anything, userOne, int64(50)).Return(int64(950), nil)
				p.tr.On("Translate", mock.Anything, text50, "fr").Return("translated", nil)
				p.rd.On("Render", extractor.FamilyWord, "translated").Return(docxOut, nil)
				p.store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, errors.New("disk full"))
				p.users.On("RefundCharacters", mock.Anything, userOne, int64(50)).Return(nil)
			},
			wantErr: ErrRegeneration,
		},
		{
			name:  "job update fails, output removed and quota refunded",
			jobID: jobOne,
			setupMocks: func(p *pipeline) {
				job := wordJob()
				p.jobs.On("FindByID", mock.Anything, jobOne).Return(job, nil)
				p.users.On("FindByID", mock.Anything, userOne).Return(quotaUser(1000), nil)
				p.expectSource(job, extractor.Result{Text: text50})
				p.users.On("ConsumeCharacters", mock.Anything, userOne, int64(50)).Return(int64(950), nil)
				p.tr.On("Translate", mock.Anything, text50, "fr").Return("translated", nil)
				p.rd.On("Render", extractor.FamilyWord, "translated").Return(docxOut, nil)
				p.store.On("Put", mock.Anything, "outputs/170-a.docx_translated.docx", mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
				p.jobs.On("MarkTranslated", mock.Anything, jobOne, "outputs/170-a.docx_translated.docx").Return(errors.New("conn reset"))
				p.store.On("Delete", mock.Anything, "outputs/170-a.docx_translated.docx").Return(nil)
				p.users.On("RefundCharacters", mock.Anything, userOne, int64(50)).Return(nil)
			},
			wantErr: ErrRegeneration,
		},
		{
			name:  "pdf is not charged by default",
			jobID: jobTwo,
			setupMocks: func(p *pipeline) {
				job := pdfJob()
				p.jobs.On("FindByID", mock.Anything, jobTwo).Return(job, nil)
				p.users.On("FindByID", mock.Anything, userOne).Return(quotaUser(10), nil)
				p.expectSource(job, extractor.Result{Text: text50, PageCount: 2})
				p.tr.On("Translate", mock.Anything, text50, "de").Return("übersetzt", nil)
				p.rd.On("Render", extractor.FamilyPDF, "übersetzt").Return(pdfOut, nil)
				p.store.On("Put", mock.Anything, "outputs/170-b.pdf_translated.pdf", mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
				p.jobs.On("MarkTranslated", mock.Anything, jobTwo, "outputs/170-b.pdf_translated.pdf").Return(nil)
			},
			wantPath: "outputs/170-b.pdf_translated.pdf",
		},
		{
			name:  "pdf charged when enabled",
			jobID: jobTwo,
			opts:  TranslationOptions{ChargePDFCharacters: true},
			setupMocks: func(p *pipeline) {
				job := pdfJob()
				p.jobs.On("FindByID", mock.Anything, jobTwo).Return(job, nil)
				p.users.On("FindByID", mock.Anything, userOne).Return(quotaUser(10), nil)
				p.expectSource(job, extractor.Result{Text: text50, PageCount: 2})
				p.users.On("ConsumeCharacters", mock.Anything, userOne, int64(50)).Return(int64(0), repository.ErrInsufficientQuota)
			},
			wantErr: ErrQuotaExceeded,
			wantMsg: MsgTooManyCharacters,
		},
		{
			name:  "pdf over page limit",
			jobID: jobTwo,
			setupMocks: func(p *pipeline) {
				job := pdfJob()
				p.jobs.On("FindByID", mock.Anything, jobTwo).Return(job, nil)
				p.users.On("FindByID", mock.Anything, userOne).Return(quotaUser(1000), nil)
				p.expectSource(job, extractor.Result{Text: text50, PageCount: 21})
			},
			wantErr: ErrQuotaExceeded,
			wantMsg: MsgTooManyPages,
		},
		{
			name:  "already translated job is returned as is",
			jobID: jobOne,
			setupMocks: func(p *pipeline) {
				job := wordJob()
				path := "outputs/170-a.docx_translated.docx"
				job.Translated = true
				job.TranslatedFilePath = &path
				p.jobs.On("FindByID", mock.Anything, jobOne).Return(job, nil)
			},
			wantPath: "outputs/170-a.docx_translated.docx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPipeline()
			if tt.setupMocks != nil {
				tt.setupMocks(p)
			}
			svc := p.service(lock.NewLocal(), tt.opts)

			job, err := svc.Translate(context.Background(), tt.jobID, tt.userID)

			if tt.wantPath == "" {
				require.Error(t, err)
				assert.Nil(t, job)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, Message(err))
				}
			} else {
				require.NoError(t, err)
				assert.True(t, job.Translated)
				require.NotNil(t, job.TranslatedFilePath)
				assert.Equal(t, tt.wantPath, *job.TranslatedFilePath)
			}
			p.assertExpectations(t)
		})
	}
}

func TestTranslationService_TranslateRejectsConcurrentRun(t *testing.T) {
	p := newPipeline()
	locker := lock.NewLocal()
	svc := p.service(locker, TranslationOptions{})

	release, err := locker.Acquire(context.Background(), "translation:"+jobOne)
	require.NoError(t, err)
	defer release()

	_, err = svc.Translate(context.Background(), jobOne, userOne)
	assert.ErrorIs(t, err, ErrJobBusy)
	p.jobs.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestTranslationService_TranslateBoundsModelCall(t *testing.T) {
	p := newPipeline()
	job := wordJob()
	p.jobs.On("FindByID", mock.Anything, jobOne).Return(job, nil)
	p.users.On("FindByID", mock.Anything, userOne).Return(quotaUser(1000), nil)
	p.expectSource(job, extractor.Result{Text: "hi"})
	p.users.On("ConsumeCharacters", mock.Anything, userOne, int64(2)).Return(int64(998), nil)
	p.tr.On("Translate", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), "hi", "fr").Return("", context.DeadlineExceeded)
	p.users.On("RefundCharacters", mock.Anything, userOne, int64(2)).Return(nil)

	svc := p.service(lock.NewLocal(), TranslationOptions{TranslateTimeout: time.Minute})
	_, err := svc.Translate(context.Background(), jobOne, "")
	assert.ErrorIs(t, err, ErrTranslationService)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	p.assertExpectations(t)
}

func TestTranslationService_Upload(t *testing.T) {
	ctx := context.Background()
	fixed := time.UnixMilli(1700000000000)

	tests := []struct {
		name       string
		in         func() UploadInput
		setupMocks func(p *pipeline)
		wantErr    error
		wantMsg    string
		wantErrMsg string
	}{
		{
			name: "happy path",
			in: func() UploadInput {
				return UploadInput{Reader: strings.NewReader("data"), OriginalName: "Letter.DOCX", ContentType: mimeDOCX, Size: 4, ToLanguage: "fr", UserID: userOne}
			},
			setupMocks: func(p *pipeline) {
				keyOK := mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "uploads/1700000000000-") && strings.HasSuffix(key, ".docx")
				})
				p.store.On("Put", ctx, keyOK, mock.Anything, storage.PutObjectOptions{
					Size: 4, ContentType: mimeDOCX, Metadata: map[string]string{"original-filename": "Letter.DOCX"},
				}).Return(func(_ context.Context, key string, _ io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
					return storage.ObjectInfo{Key: key, Size: 4}
				}, nil)
				p.jobs.On("Create", ctx, mock.MatchedBy(func(j *model.TranslationJob) bool {
					return j.UserID == userOne && j.FilePath == "uploads/"+j.FileName && !j.Translated &&
						j.TranslatedFilePath == nil && j.FileSize == 4 && j.OriginName == "Letter.DOCX"
				})).Return(&model.TranslationJob{ID: jobOne, UserID: userOne}, nil)
			},
		},
		{
			name: "missing language",
			in: func() UploadInput {
				return UploadInput{Reader: strings.NewReader("data"), OriginalName: "a.pdf", UserID: userOne}
			},
			wantErr: ErrValidation,
		},
		{
			name: "missing file",
			in: func() UploadInput {
				return UploadInput{ToLanguage: "fr", UserID: userOne}
			},
			wantErr: ErrValidation,
		},
		{
			name: "missing user",
			in: func() UploadInput {
				return UploadInput{Reader: strings.NewReader("data"), OriginalName: "a.pdf", ToLanguage: "fr"}
			},
			wantErr: ErrValidation,
		},
		{
			name: "user id is not a uuid",
			in: func() UploadInput {
				return UploadInput{Reader: strings.NewReader("data"), OriginalName: "a.pdf", ToLanguage: "fr", UserID: "abc"}
			},
			wantErr: ErrValidation,
			wantMsg: MsgInvalidUserID,
		},
		{
			name: "storage error",
			in: func() UploadInput {
				return UploadInput{Reader: strings.NewReader("data"), OriginalName: "a.pdf", ToLanguage: "fr", UserID: userOne}
			},
			setupMocks: func(p *pipeline) {
				p.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, errors.New("storage fail"))
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name: "repository error with rollback",
			in: func() UploadInput {
				return UploadInput{Reader: strings.NewReader("data"), OriginalName: "a.pdf", ToLanguage: "fr", UserID: userOne}
			},
			setupMocks: func(p *pipeline) {
				p.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(func(_ context.Context, key string, _ io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				p.jobs.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				p.store.On("Delete", ctx, mock.MatchedBy(func(key string) bool { return strings.HasPrefix(key, "uploads/") })).Return(nil)
			},
			wantErrMsg: "db save failed: db fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPipeline()
			if tt.setupMocks != nil {
				tt.setupMocks(p)
			}
			svc := p.service(lock.NewLocal(), TranslationOptions{})
			svc.now = func() time.Time { return fixed }

			job, err := svc.Upload(ctx, tt.in())

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				want := MsgMissingFields
				if tt.wantMsg != "" {
					want = tt.wantMsg
				}
				assert.Equal(t, want, Message(err))
			case tt.wantErrMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, jobOne, job.ID)
			}
			p.assertExpectations(t)
		})
	}
}

func TestTranslationService_ListByUser(t *testing.T) {
	p := newPipeline()
	svc := p.service(lock.NewLocal(), TranslationOptions{})

	_, err := svc.ListByUser(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)

	items, err := svc.ListByUser(context.Background(), "abc")
	require.NoError(t, err)
	assert.Empty(t, items)
	p.jobs.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)

	p.jobs.On("ListByUser", mock.Anything, userOne).Return([]model.TranslationJob{{ID: "b"}, {ID: "a"}}, nil)
	items, err = svc.ListByUser(context.Background(), userOne)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestTranslationService_OpenOutput(t *testing.T) {
	p := newPipeline()
	svc := p.service(lock.NewLocal(), TranslationOptions{})
	ctx := context.Background()

	for _, name := range []string{"", "..", "../etc/passwd", `a\b`, "outputs/x.pdf"} {
		_, _, err := svc.OpenOutput(ctx, name)
		assert.ErrorIs(t, err, ErrValidation, name)
	}

	p.store.On("Get", ctx, "outputs/missing.pdf").Return(nil, storage.ObjectInfo{}, storage.ErrNotFound)
	_, _, err := svc.OpenOutput(ctx, "missing.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	p.store.On("Get", ctx, "outputs/x.pdf").Return(source(), storage.ObjectInfo{Key: "outputs/x.pdf", Size: 9}, nil)
	rc, info, err := svc.OpenOutput(ctx, "x.pdf")
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, int64(9), info.Size)
}
