package sqlitepath

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ResolveSQLitePath", func() {
	var (
		origHome     string
		origXDG      string
		origParleyDB string
		origParleySQ string
		origCwd      string
	)

	BeforeEach(func() {
		origHome = os.Getenv("HOME")
		origXDG = os.Getenv("XDG_DATA_HOME")
		origParleyDB = os.Getenv("PARLEY_DB")
		origParleySQ = os.Getenv("PARLEY_SQLITE")
		var err error
		origCwd, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.Setenv("HOME", origHome)).To(Succeed())
		Expect(os.Setenv("XDG_DATA_HOME", origXDG)).To(Succeed())
		Expect(os.Setenv("PARLEY_DB", origParleyDB)).To(Succeed())
		Expect(os.Setenv("PARLEY_SQLITE", origParleySQ)).To(Succeed())
		Expect(os.Chdir(origCwd)).To(Succeed())
	})

	It("returns the override untouched", func() {
		path, err := ResolveSQLitePath("/tmp/explicit.db")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/explicit.db"))
	})

	It("prefers PARLEY_SQLITE when set", func() {
		Expect(os.Setenv("PARLEY_SQLITE", "/tmp/custom.db")).To(Succeed())
		Expect(os.Setenv("PARLEY_DB", "")).To(Succeed())

		path, err := ResolveSQLitePath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/custom.db"))
	})

	It("falls back to PARLEY_DB when PARLEY_SQLITE is empty", func() {
		Expect(os.Setenv("PARLEY_SQLITE", "")).To(Succeed())
		Expect(os.Setenv("PARLEY_DB", "/tmp/fallback.db")).To(Succeed())

		path, err := ResolveSQLitePath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/fallback.db"))
	})

	It("resolves ~/.parley/db.sqlite3 when present", func() {
		homeDir, err := os.MkdirTemp("", "parley-home-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(homeDir)
		})

		tmpDir, err := os.MkdirTemp("", "parley-cwd-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(tmpDir)
		})

		Expect(os.Setenv("HOME", homeDir)).To(Succeed())
		Expect(os.Setenv("XDG_DATA_HOME", "")).To(Succeed())
		Expect(os.Setenv("PARLEY_DB", "")).To(Succeed())
		Expect(os.Setenv("PARLEY_SQLITE", "")).To(Succeed())
		Expect(os.Chdir(tmpDir)).To(Succeed())

		dbPath := filepath.Join(homeDir, ".parley", "db.sqlite3")
		Expect(os.MkdirAll(filepath.Dir(dbPath), 0o755)).To(Succeed())
		Expect(os.WriteFile(dbPath, []byte("test"), 0o644)).To(Succeed())

		path, err := ResolveSQLitePath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(dbPath))
	})

	It("resolves a local db.sqlite3 in the working directory", func() {
		homeDir, err := os.MkdirTemp("", "parley-home-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(homeDir)
		})

		tmpDir, err := os.MkdirTemp("", "parley-cwd-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(tmpDir)
		})

		Expect(os.Setenv("HOME", homeDir)).To(Succeed())
		Expect(os.Setenv("XDG_DATA_HOME", "")).To(Succeed())
		Expect(os.Setenv("PARLEY_DB", "")).To(Succeed())
		Expect(os.Setenv("PARLEY_SQLITE", "")).To(Succeed())
		Expect(os.Chdir(tmpDir)).To(Succeed())

		Expect(os.WriteFile("db.sqlite3", []byte("test"), 0o644)).To(Succeed())

		path, err := ResolveSQLitePath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("db.sqlite3"))
	})

	It("errors when nothing resolves", func() {
		homeDir, err := os.MkdirTemp("", "parley-home-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(homeDir)
		})

		tmpDir, err := os.MkdirTemp("", "parley-cwd-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(tmpDir)
		})

		Expect(os.Setenv("HOME", homeDir)).To(Succeed())
		Expect(os.Setenv("XDG_DATA_HOME", "")).To(Succeed())
		Expect(os.Setenv("PARLEY_DB", "")).To(Succeed())
		Expect(os.Setenv("PARLEY_SQLITE", "")).To(Succeed())
		Expect(os.Chdir(tmpDir)).To(Succeed())

		_, err = ResolveSQLitePath("")
		Expect(err).To(MatchError(ContainSubstring("pass --sqlite")))
	})
})
