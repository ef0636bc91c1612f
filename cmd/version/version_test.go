package versioncmder_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	versioncmder "github.com/parleyhq/parley/cmd/version"
)

func TestVersion(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Version Command Suite")
}

var _ = Describe("NewVersionCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := versioncmder.NewVersionCmd()
		Expect(cmd.Use).To(Equal("version"))
	})

	It("rejects positional arguments", func() {
		cmd := versioncmder.NewVersionCmd()
		err := cmd.Args(cmd, []string{"extra"})
		Expect(err).To(HaveOccurred())
	})

	It("runs without error", func() {
		cmd := versioncmder.NewVersionCmd()
		cmd.SetArgs([]string{})
		Expect(cmd.Execute()).To(Succeed())
	})
})
