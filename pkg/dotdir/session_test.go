package dotdir_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/parleyhq/parley/pkg/dotdir"
)

var _ = Describe("dotdir.Manager session", func() {
	var tmpDir string
	var m *dotdir.Manager

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dotdir-test-*")
		Expect(err).NotTo(HaveOccurred())
		m = dotdir.NewManager()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadSessionRecord", func() {
		It("returns nil when no session file exists", func() {
			record, err := m.LoadSessionRecord(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(record).To(BeNil())
		})

		It("loads a valid session record", func() {
			// Write a session file manually
			data := `{"session":"abc123","started_at":"2025-06-01T10:00:00Z","ended_at":"2025-06-01T10:05:00Z","turns":7}`
			err := os.WriteFile(filepath.Join(tmpDir, "session.json"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			record, err := m.LoadSessionRecord(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(record).NotTo(BeNil())
			Expect(record.Session).To(Equal("abc123"))
			Expect(record.Turns).To(Equal(7))
			Expect(record.EndedAt.Sub(record.StartedAt)).To(Equal(5 * time.Minute))
		})

		It("returns error for invalid JSON", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "session.json"), []byte("not json"), 0o600)
			Expect(err).NotTo(HaveOccurred())

			record, err := m.LoadSessionRecord(tmpDir)
			Expect(err).To(HaveOccurred())
			Expect(record).To(BeNil())
		})
	})

	Describe("SaveSession", func() {
		It("persists the session record to disk", func() {
			started := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
			record := &dotdir.SessionRecord{
				Session:   "def456",
				StartedAt: started,
				EndedAt:   started.Add(2 * time.Minute),
				Turns:     3,
			}

			err := m.SaveSession(record, tmpDir)
			Expect(err).NotTo(HaveOccurred())

			// Verify the file exists
			_, err = os.Stat(filepath.Join(tmpDir, "session.json"))
			Expect(err).NotTo(HaveOccurred())

			// Load it back and verify
			loaded, err := m.LoadSessionRecord(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Session).To(Equal("def456"))
			Expect(loaded.Turns).To(Equal(3))
		})

		It("returns error for nil record", func() {
			err := m.SaveSession(nil, tmpDir)
			Expect(err).To(HaveOccurred())
		})

		It("overwrites an existing session record", func() {
			first := &dotdir.SessionRecord{Session: "first", Turns: 1}
			second := &dotdir.SessionRecord{Session: "second", Turns: 2}

			err := m.SaveSession(first, tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = m.SaveSession(second, tmpDir)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := m.LoadSessionRecord(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Session).To(Equal("second"))
			Expect(loaded.Turns).To(Equal(2))
		})
	})

	Describe("ClearSession", func() {
		It("removes the session file", func() {
			record := &dotdir.SessionRecord{Session: "to-clear"}
			err := m.SaveSession(record, tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = m.ClearSession(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := m.LoadSessionRecord(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(BeNil())
		})

		It("succeeds when no session file exists", func() {
			err := m.ClearSession(tmpDir)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("round-trip", func() {
		It("saves and loads a session record correctly", func() {
			started := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
			record := &dotdir.SessionRecord{
				Session:   "abc123def456",
				StartedAt: started,
				EndedAt:   started.Add(12 * time.Minute),
				Turns:     25,
			}

			err := m.SaveSession(record, tmpDir)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := m.LoadSessionRecord(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(record))
		})
	})
})
