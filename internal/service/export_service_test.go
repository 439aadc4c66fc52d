package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/register-share-api/internal/models"
	appErrors "github.com/noah-isme/register-share-api/pkg/errors"
)

type fetcherStub struct {
	snap *models.ShareSnapshot
	err  error
}

func (f *fetcherStub) Fetch(ctx context.Context, code string) (*models.ShareSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

func TestRenderRegisterPDF(t *testing.T) {
	svc := NewExportService(&fetcherStub{snap: testSnapshot()}, nil)

	result, err := svc.RenderRegister(context.Background(), "ABCDEF", "March", ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, "Grade 5-A-March-register.pdf", result.Filename)
	require.NotEmpty(t, result.Content)
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestRenderRegisterCSV(t *testing.T) {
	svc := NewExportService(&fetcherStub{snap: testSnapshot()}, nil)

	result, err := svc.RenderRegister(context.Background(), "ABCDEF", "March", ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)

	body := string(result.Content)
	assert.Contains(t, body, "Aarav Patel")
	assert.True(t, strings.HasPrefix(body, "Roll,Name,"))
}

func TestRenderRegisterDefaultsToPDF(t *testing.T) {
	svc := NewExportService(&fetcherStub{snap: testSnapshot()}, nil)

	result, err := svc.RenderRegister(context.Background(), "ABCDEF", "March", "")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
}

func TestRenderRegisterUnknownMonth(t *testing.T) {
	svc := NewExportService(&fetcherStub{snap: testSnapshot()}, nil)

	_, err := svc.RenderRegister(context.Background(), "ABCDEF", "Brumaire", ExportFormatPDF)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRenderRegisterUnknownFormat(t *testing.T) {
	svc := NewExportService(&fetcherStub{snap: testSnapshot()}, nil)

	_, err := svc.RenderRegister(context.Background(), "ABCDEF", "March", ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRenderRegisterPropagatesFetchError(t *testing.T) {
	svc := NewExportService(&fetcherStub{err: appErrors.Clone(appErrors.ErrGone, "")}, nil)

	_, err := svc.RenderRegister(context.Background(), "ABCDEF", "March", ExportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrGone.Code, appErrors.FromError(err).Code)
}
