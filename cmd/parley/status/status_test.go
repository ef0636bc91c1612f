package statuscmder_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	statuscmder "github.com/parleyhq/parley/cmd/parley/status"
	"github.com/parleyhq/parley/pkg/conversation"
	"github.com/parleyhq/parley/pkg/dotdir"
	"github.com/parleyhq/parley/pkg/storage/sqlite"
)

func TestStatus(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Status Command Suite")
}

var _ = Describe("NewStatusCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := statuscmder.NewStatusCmd()
		Expect(cmd.Use).To(Equal("status"))
	})

	It("accepts zero arguments", func() {
		cmd := statuscmder.NewStatusCmd()
		err := cmd.Args(cmd, []string{})
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects any arguments", func() {
		cmd := statuscmder.NewStatusCmd()
		err := cmd.Args(cmd, []string{"extra"})
		Expect(err).To(HaveOccurred())
	})

	It("has --sqlite with an empty default so discovery applies", func() {
		cmd := statuscmder.NewStatusCmd()
		flag := cmd.Flags().Lookup("sqlite")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("s"))
		Expect(flag.DefValue).To(BeEmpty())
	})
})

var _ = Describe("Status command execution", func() {
	var (
		tmpDir   string
		origDir  string
		origHome string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "parley-status-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(tmpDir)).To(Succeed())

		origHome = os.Getenv("HOME")
		Expect(os.Setenv("HOME", tmpDir)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.Setenv("HOME", origHome)).To(Succeed())
		Expect(os.Chdir(origDir)).To(Succeed())
		os.RemoveAll(tmpDir)
	})

	It("runs without error when no database exists", func() {
		Expect(os.MkdirAll(filepath.Join(tmpDir, ".parley"), 0o755)).To(Succeed())

		cmd := statuscmder.NewStatusCmd()
		cmd.SetArgs([]string{})
		Expect(cmd.Execute()).To(Succeed())
	})

	It("runs without error against a populated database", func() {
		ctx := context.Background()
		dbPath := filepath.Join(tmpDir, "db.sqlite3")

		store, err := sqlite.NewDriver(ctx, dbPath)
		Expect(err).NotTo(HaveOccurred())

		_, err = store.Put(ctx, conversation.New("Hello", ""))
		Expect(err).NotTo(HaveOccurred())
		_, err = store.Put(ctx, conversation.New("Hi there!", "Hello"))
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Close()).To(Succeed())

		cmd := statuscmder.NewStatusCmd()
		cmd.SetArgs([]string{"--sqlite", dbPath})
		Expect(cmd.Execute()).To(Succeed())
	})

	It("runs without error when a session record exists", func() {
		parleyDir := filepath.Join(tmpDir, ".parley")
		Expect(os.MkdirAll(parleyDir, 0o755)).To(Succeed())

		record := &dotdir.SessionRecord{
			Session:   "a8f2c1d3-0000-0000-0000-000000000000",
			StartedAt: time.Now().UTC().Add(-2 * time.Minute),
			EndedAt:   time.Now().UTC(),
			Turns:     3,
		}
		data, err := json.MarshalIndent(record, "", "  ")
		Expect(err).NotTo(HaveOccurred())
		Expect(os.WriteFile(filepath.Join(parleyDir, "session.json"), data, 0o644)).To(Succeed())

		cmd := statuscmder.NewStatusCmd()
		cmd.SetArgs([]string{})
		Expect(cmd.Execute()).To(Succeed())
	})
})
