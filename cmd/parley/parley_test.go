package parleycmder_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	parleycmder "github.com/parleyhq/parley/cmd/parley"
)

func TestParley(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Parley Command Suite")
}

var _ = Describe("NewParleyCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := parleycmder.NewParleyCmd()
		Expect(cmd.Use).To(Equal("parley"))
	})

	It("registers every subcommand", func() {
		cmd := parleycmder.NewParleyCmd()
		names := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements(
			"chat", "train", "status", "history", "config", "init", "version",
		))
	})

	It("has a persistent --debug flag with shorthand", func() {
		cmd := parleycmder.NewParleyCmd()
		flag := cmd.PersistentFlags().Lookup("debug")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("d"))
		Expect(flag.DefValue).To(Equal("false"))
	})

	It("has a persistent --config-dir flag", func() {
		cmd := parleycmder.NewParleyCmd()
		flag := cmd.PersistentFlags().Lookup("config-dir")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(BeEmpty())
	})

	It("lets subcommands see the persistent flags", func() {
		cmd := parleycmder.NewParleyCmd()
		cmd.SetArgs([]string{"version", "--debug"})
		Expect(cmd.Execute()).To(Succeed())
	})
})
