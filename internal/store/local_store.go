package store

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/noah-isme/register-share-api/internal/attendance"
	"github.com/noah-isme/register-share-api/internal/models"
	appErrors "github.com/noah-isme/register-share-api/pkg/errors"
)

// LocalStore persists the teacher's classes and the viewer-side bookkeeping
// (saved codes, session identity) in a single JSON file on disk. It replaces
// the browser app's per-key storage with one document saved atomically via a
// temp file rename.
type LocalStore struct {
	path string
	data fileData
}

type fileData struct {
	Classes    []models.SchoolClass `json:"classes"`
	SavedCodes []models.SavedCode   `json:"savedCodes"`
	SessionID  string               `json:"sessionId"`
}

// Open loads the store file, creating parent directories as needed. A missing
// file yields an empty store; the file appears on first save.
func Open(path string) (*LocalStore, error) {
	s := &LocalStore{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse store file %s: %w", path, err)
	}
	return s, nil
}

// Classes returns all stored classes.
func (s *LocalStore) Classes() []models.SchoolClass {
	return s.data.Classes
}

// Class returns one class by id.
func (s *LocalStore) Class(id string) (*models.SchoolClass, bool) {
	for i := range s.data.Classes {
		if s.data.Classes[i].ID == id {
			return &s.data.Classes[i], true
		}
	}
	return nil, false
}

// UpsertClass inserts or replaces a class by id and saves.
func (s *LocalStore) UpsertClass(class models.SchoolClass) error {
	for i := range s.data.Classes {
		if s.data.Classes[i].ID == class.ID {
			s.data.Classes[i] = class
			return s.save()
		}
	}
	s.data.Classes = append(s.data.Classes, class)
	return s.save()
}

// DeleteClass removes a class by id and saves. Unknown ids are a no-op.
func (s *LocalStore) DeleteClass(id string) error {
	for i := range s.data.Classes {
		if s.data.Classes[i].ID == id {
			s.data.Classes = append(s.data.Classes[:i], s.data.Classes[i+1:]...)
			return s.save()
		}
	}
	return nil
}

// ExportClass serialises one class for manual backup or transfer.
func (s *LocalStore) ExportClass(id string) ([]byte, error) {
	class, ok := s.Class(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown class")
	}
	return json.MarshalIndent(class, "", "  ")
}

// ImportClass validates and stores a previously exported class. Malformed
// input is rejected wholesale; nothing is persisted on error.
func (s *LocalStore) ImportClass(raw []byte) (*models.SchoolClass, error) {
	var class models.SchoolClass
	if err := json.Unmarshal(raw, &class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed class file")
	}
	if err := validateImportedClass(&class); err != nil {
		return nil, err
	}

	snap := models.ShareSnapshot{SchoolClass: class}
	snap.Normalize()
	if err := s.UpsertClass(snap.SchoolClass); err != nil {
		return nil, err
	}
	imported, _ := s.Class(class.ID)
	return imported, nil
}

func validateImportedClass(class *models.SchoolClass) error {
	if class.ID == "" || class.Name == "" {
		return appErrors.Clone(appErrors.ErrValidation, "class id and name are required")
	}
	for _, student := range class.Students {
		if student.ID == "" || student.Name == "" {
			return appErrors.Clone(appErrors.ErrValidation, "every student needs an id and a name")
		}
	}
	for month, byStudent := range class.Attendance {
		if attendance.MonthIndex(month) < 0 {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown month %q", month))
		}
		for _, record := range byStudent {
			for _, status := range record {
				if !status.Valid() {
					return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid attendance mark %q", status))
				}
			}
		}
	}
	for month := range class.Holidays {
		if attendance.MonthIndex(month) < 0 {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown month %q", month))
		}
	}
	for _, msg := range class.Messages {
		if msg.Type != "" && !msg.Type.Valid() {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid message type %q", msg.Type))
		}
	}
	return nil
}

// SavedCodes returns the remembered share codes, most recent first.
func (s *LocalStore) SavedCodes() []models.SavedCode {
	return s.data.SavedCodes
}

// SaveCode remembers a {code, name} pair for quick re-join. An already saved
// code moves to the front with the fresh name instead of duplicating.
func (s *LocalStore) SaveCode(code, name string) error {
	entry := models.SavedCode{Code: code, Name: name}
	for i := range s.data.SavedCodes {
		if s.data.SavedCodes[i].Code == code {
			s.data.SavedCodes = append(s.data.SavedCodes[:i], s.data.SavedCodes[i+1:]...)
			break
		}
	}
	s.data.SavedCodes = append([]models.SavedCode{entry}, s.data.SavedCodes...)
	return s.save()
}

// ForgetCode drops a remembered code.
func (s *LocalStore) ForgetCode(code string) error {
	for i := range s.data.SavedCodes {
		if s.data.SavedCodes[i].Code == code {
			s.data.SavedCodes = append(s.data.SavedCodes[:i], s.data.SavedCodes[i+1:]...)
			return s.save()
		}
	}
	return nil
}

// SessionID returns this device's viewer identity, generating and persisting
// one on first use. The id is stable across runs so message authorship
// survives restarts.
func (s *LocalStore) SessionID() (string, error) {
	if s.data.SessionID != "" {
		return s.data.SessionID, nil
	}
	suffix, err := randomSuffix(9)
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	s.data.SessionID = fmt.Sprintf("student_%d_%s", time.Now().UnixMilli(), suffix)
	if err := s.save(); err != nil {
		return "", err
	}
	return s.data.SessionID, nil
}

func (s *LocalStore) save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) (string, error) {
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(suffixAlphabet))))
		if err != nil {
			return "", err
		}
		out[i] = suffixAlphabet[idx.Int64()]
	}
	return string(out), nil
}
