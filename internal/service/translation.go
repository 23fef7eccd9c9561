package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"translateapi/internal/extractor"
	"translateapi/internal/lock"
	"translateapi/internal/model"
	"translateapi/internal/regenerator"
	"translateapi/internal/repository"
	"translateapi/internal/storage"
)

// TextExtractor reads the text layer of a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, mimeType string, data []byte) (extractor.Result, error)
}

// Translator sends text to the language model.
type Translator interface {
	Translate(ctx context.Context, text, language string) (string, error)
}

// Renderer builds the output document for a family.
type Renderer interface {
	Render(family extractor.Family, text string) (regenerator.Output, error)
}

// UploadInput is a file received from a client.
type UploadInput struct {
	Reader       io.Reader
	OriginalName string
	ContentType  string
	Size         int64
	ToLanguage   string
	UserID       string
}

// TranslationOptions tunes the pipeline.
type TranslationOptions struct {
	UploadsPrefix string
	OutputsPrefix string
	// ChargePDFCharacters applies the character quota to PDFs as well as word documents.
	ChargePDFCharacters bool
	// TranslateTimeout bounds the language model call. Zero means no extra bound.
	TranslateTimeout time.Duration
}

// TranslationService covers the document translation pipeline.
type TranslationService interface {
	// Upload stores the file and records a pending job.
	Upload(ctx context.Context, in UploadInput) (*model.TranslationJob, error)

	// ListByUser returns a user's jobs, most recently updated first.
	ListByUser(ctx context.Context, userID string) ([]model.TranslationJob, error)

	// Translate runs extract, quota, translate and regenerate for one job.
	// On failure the job stays pending and the user's quota is unchanged.
	Translate(ctx context.Context, jobID, userID string) (*model.TranslationJob, error)

	// OpenOutput opens a regenerated file by name for download.
	OpenOutput(ctx context.Context, fileName string) (io.ReadCloser, storage.ObjectInfo, error)
}

type translationService struct {
	jobs       repository.TranslationRepository
	users      repository.UserRepository
	store      storage.Storage
	extractor  TextExtractor
	translator Translator
	renderer   Renderer
	locker     lock.Locker
	opts       TranslationOptions
	log        zerolog.Logger
	now        func() time.Time
}

// NewTranslationService constructs a new TranslationService.
func NewTranslationService(
	jobs repository.TranslationRepository,
	users repository.UserRepository,
	store storage.Storage,
	ext TextExtractor,
	tr Translator,
	rd Renderer,
	locker lock.Locker,
	opts TranslationOptions,
	log zerolog.Logger,
) TranslationService {
	return &translationService{
		jobs:       jobs,
		users:      users,
		store:      store,
		extractor:  ext,
		translator: tr,
		renderer:   rd,
		locker:     locker,
		opts:       opts,
		log:        log.With().Str("component", "translation").Logger(),
		now:        time.Now,
	}
}

// storedName is unique per upload: millisecond timestamp plus a random UUID.
func (s *translationService) storedName(originalName string) string {
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString(), strings.ToLower(filepath.Ext(originalName)))
}

func (s *translationService) Upload(ctx context.Context, in UploadInput) (*model.TranslationJob, error) {
	if in.Reader == nil || in.OriginalName == "" || in.ToLanguage == "" || in.UserID == "" {
		return nil, newError(ErrValidation, MsgMissingFields)
	}
	if !validID(in.UserID) {
		return nil, newError(ErrValidation, MsgInvalidUserID)
	}

	name := s.storedName(in.OriginalName)
	key := storage.Key(s.opts.UploadsPrefix, name)

	obj, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata:    map[string]string{"original-filename": in.OriginalName},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	now := s.now().UTC()
	job := &model.TranslationJob{
		ID:         uuid.NewString(),
		UserID:     in.UserID,
		OriginName: in.OriginalName,
		FileName:   name,
		FilePath:   key,
		FileType:   in.ContentType,
		FileSize:   obj.Size,
		ToLanguage: in.ToLanguage,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	stored, err := s.jobs.Create(ctx, job)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.log.Info().
		Str("event", "upload").
		Str("job_id", stored.ID).
		Str("user_id", stored.UserID).
		Str("file_type", stored.FileType).
		Int64("file_size", stored.FileSize).
		Send()
	return stored, nil
}

func (s *translationService) ListByUser(ctx context.Context, userID string) ([]model.TranslationJob, error) {
	if userID == "" {
		return nil, newError(ErrValidation, "userId is required")
	}
	if !validID(userID) {
		return []model.TranslationJob{}, nil
	}
	return s.jobs.ListByUser(ctx, userID)
}

func (s *translationService) Translate(ctx context.Context, jobID, userID string) (*model.TranslationJob, error) {
	if jobID == "" {
		return nil, newError(ErrValidation, "id is required")
	}
	if !validID(jobID) || (userID != "" && !validID(userID)) {
		return nil, newError(ErrNotFound, MsgJobNotFound)
	}

	release, err := s.locker.Acquire(ctx, "translation:"+jobID)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, newError(ErrJobBusy, "This document is already being translated.")
		}
		return nil, fmt.Errorf("acquire job lock: %w", err)
	}
	defer release()

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, MsgJobNotFound)
		}
		return nil, fmt.Errorf("load job: %w", err)
	}
	if userID != "" && userID != job.UserID {
		return nil, newError(ErrNotFound, MsgJobNotFound)
	}
	if job.Translated {
		return job, nil
	}

	user, err := s.users.FindByID(ctx, job.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, MsgUserNotFound)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if job.FileSize > user.FileSizeLimit {
		return nil, newError(ErrQuotaExceeded, MsgFileSizeOverLimit)
	}

	family := extractor.FamilyOf(job.FileType)
	if family == extractor.FamilyUnknown {
		return nil, newError(ErrUnsupportedFormat, fmt.Sprintf("unsupported file type %q", job.FileType))
	}

	log := s.log.With().Str("job_id", job.ID).Str("user_id", user.ID).Str("family", string(family)).Logger()

	text, pages, err := s.extract(ctx, job)
	if err != nil {
		log.Error().Err(err).Str("event", "extract_failed").Send()
		return nil, err
	}
	if family == extractor.FamilyPDF && pages > user.PageLimit {
		return nil, newError(ErrQuotaExceeded, MsgTooManyPages)
	}

	chars := int64(utf8.RuneCountInString(text))
	charged := family == extractor.FamilyWord || s.opts.ChargePDFCharacters
	if charged {
		remaining, err := s.users.ConsumeCharacters(ctx, user.ID, chars)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrInsufficientQuota):
				return nil, newError(ErrQuotaExceeded, MsgTooManyCharacters)
			case errors.Is(err, repository.ErrNotFound):
				return nil, newError(ErrNotFound, MsgUserNotFound)
			}
			return nil, fmt.Errorf("reserve characters: %w", err)
		}
		log = log.With().Int64("characters", chars).Int64("remaining", remaining).Logger()
	}

	path, err := s.produce(ctx, job, family, text)
	if err != nil {
		log.Error().Err(err).Str("event", "translate_failed").Send()
		if charged {
			s.refund(ctx, log, user.ID, chars)
		}
		return nil, err
	}

	job.Translated = true
	job.TranslatedFilePath = &path
	job.UpdatedAt = s.now().UTC()
	log.Info().Str("event", "translated").Str("output", path).Send()
	return job, nil
}

// extract reads the stored source and returns its text and page count.
func (s *translationService) extract(ctx context.Context, job *model.TranslationJob) (string, int, error) {
	rc, _, err := s.store.Get(ctx, job.FilePath)
	if err != nil {
		return "", 0, wrapError(ErrExtraction, "source file is unavailable", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", 0, wrapError(ErrExtraction, "read source file", err)
	}

	res, err := s.extractor.Extract(ctx, job.FileType, data)
	if err != nil {
		if errors.Is(err, extractor.ErrUnsupportedFormat) {
			return "", 0, wrapError(ErrUnsupportedFormat, "unsupported file type", err)
		}
		return "", 0, wrapError(ErrExtraction, "extract text", err)
	}
	return res.Text, res.PageCount, nil
}

// produce translates text, stores the output and marks the job translated.
// The job only references the output once it is fully written.
func (s *translationService) produce(ctx context.Context, job *model.TranslationJob, family extractor.Family, text string) (string, error) {
	tctx := ctx
	if s.opts.TranslateTimeout > 0 {
		var cancel context.CancelFunc
		tctx, cancel = context.WithTimeout(ctx, s.opts.TranslateTimeout)
		defer cancel()
	}
	translated, err := s.translator.Translate(tctx, text, job.ToLanguage)
	if err != nil {
		return "", wrapError(ErrTranslationService, "translate text", err)
	}

	out, err := s.renderer.Render(family, translated)
	if err != nil {
		return "", wrapError(ErrRegeneration, "render output", err)
	}

	key := storage.Key(s.opts.OutputsPrefix, regenerator.OutputName(job.FileName, family))
	if _, err := s.store.Put(ctx, key, bytes.NewReader(out.Data), storage.PutObjectOptions{
		Size:        int64(len(out.Data)),
		ContentType: out.ContentType,
	}); err != nil {
		return "", wrapError(ErrRegeneration, "store output", err)
	}

	if err := s.jobs.MarkTranslated(ctx, job.ID, key); err != nil {
		if delErr := s.store.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			s.log.Warn().Err(delErr).Str("key", key).Msg("orphaned output file")
		}
		return "", wrapError(ErrRegeneration, "mark job translated", err)
	}
	return key, nil
}

// refund returns reserved characters. It runs even if the request was canceled.
func (s *translationService) refund(ctx context.Context, log zerolog.Logger, userID string, chars int64) {
	if err := s.users.RefundCharacters(context.WithoutCancel(ctx), userID, chars); err != nil {
		log.Error().Err(err).Str("event", "refund_failed").Send()
	}
}

func (s *translationService) OpenOutput(ctx context.Context, fileName string) (io.ReadCloser, storage.ObjectInfo, error) {
	if fileName == "" || fileName == "." || fileName == ".." || strings.ContainsAny(fileName, `/\`) {
		return nil, storage.ObjectInfo{}, newError(ErrValidation, "invalid file name")
	}
	rc, info, err := s.store.Get(ctx, storage.Key(s.opts.OutputsPrefix, fileName))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.ObjectInfo{}, newError(ErrNotFound, "File not found")
		}
		return nil, storage.ObjectInfo{}, err
	}
	return rc, info, nil
}
