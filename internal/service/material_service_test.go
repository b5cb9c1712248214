package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"brainbytes-go/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *memoryStore) Put(_ context.Context, name string, r io.Reader, size int64, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(b)) != size {
		return errors.New("size mismatch")
	}
	s.objects[name] = b
	s.types[name] = contentType
	return nil
}

func (s *memoryStore) Get(_ context.Context, name string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.objects[name])), nil
}

func (s *memoryStore) PresignedURL(_ context.Context, name string) (string, error) {
	return "https://objects.local/" + name + "?sig=1", nil
}

type fixedExtractor struct {
	text string
	err  error
}

func (e fixedExtractor) ExtractText(_ context.Context, r io.Reader, _ string) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	return e.text, e.err
}

func TestMaterialService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	svc := NewMaterialService(repository.NewMaterialRepository(newTestDB(t)), nil, nil)

	_, err := svc.Create(ctx, MaterialInput{Subject: "Math", Topic: "Fractions"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	m, err := svc.Create(ctx, MaterialInput{Subject: "Math", Topic: "Fractions", Content: "halves"})
	require.NoError(t, err)
	assert.NotZero(t, m.ID)
	_, err = svc.Create(ctx, MaterialInput{Subject: "Science", Topic: "Cells", Content: "mitochondria"})
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	math, err := svc.List(ctx, " MATH ")
	require.NoError(t, err)
	require.Len(t, math, 1)
	assert.Equal(t, "Fractions", math[0].Topic)
}

func TestMaterialService_Attachments(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMaterialRepository(newTestDB(t))
	store := newMemoryStore()
	svc := NewMaterialService(repo, store, fixedExtractor{text: "chapter one"})

	m, err := svc.Create(ctx, MaterialInput{Subject: "History", Topic: "Rome", Content: "notes"})
	require.NoError(t, err)

	_, err = svc.AttachmentURL(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.UploadAttachment(ctx, m.ID, "../rome.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "rome.pdf", updated.AttachmentName)
	assert.Contains(t, store.objects, updated.AttachmentObject)
	assert.Equal(t, "application/pdf", store.types[updated.AttachmentObject])
	assert.Equal(t, "notes\n\nchapter one", updated.Content)

	link, err := svc.AttachmentURL(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "rome.pdf", link.FileName)
	assert.Contains(t, link.URL, updated.AttachmentObject)

	_, err = svc.UploadAttachment(ctx, 999, "x.txt", "text/plain", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UploadAttachment(ctx, m.ID, "empty.txt", "text/plain", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMaterialService_ExtractionFailureKeepsAttachment(t *testing.T) {
	ctx := context.Background()
	svc := NewMaterialService(repository.NewMaterialRepository(newTestDB(t)), newMemoryStore(), fixedExtractor{err: errors.New("tika down")})

	m, err := svc.Create(ctx, MaterialInput{Subject: "Math", Topic: "T", Content: "c"})
	require.NoError(t, err)

	updated, err := svc.UploadAttachment(ctx, m.ID, "a.txt", "text/plain", strings.NewReader("body"))
	require.NoError(t, err)
	assert.Equal(t, "c", updated.Content)
	assert.NotEmpty(t, updated.AttachmentObject)
}

func TestMaterialService_StorageDisabled(t *testing.T) {
	svc := NewMaterialService(repository.NewMaterialRepository(newTestDB(t)), nil, nil)
	_, err := svc.UploadAttachment(context.Background(), 1, "a.txt", "text/plain", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = svc.AttachmentURL(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}
