// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

//go:build integration

package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	sdk "github.com/droverhq/drover/pkg/plugin"
)

// The end-to-end lifecycle: discover two plugins, route an invocation
// through the full event sequence, and tear down in reverse order.
var _ = Describe("plugin lifecycle", func() {
	var (
		log      []string
		greeter  *testPlugin
		echoer   *testPlugin
		registry *Registry
		router   *Router
	)

	BeforeEach(func() {
		log = nil
		greeter = &testPlugin{
			meta: sdk.Metadata{Name: "greeter", Version: "0.1.0"},
			commands: []sdk.Command{{
				Name:        "greet",
				Description: "Print a greeting",
				Args:        []sdk.Arg{{Name: "name", Kind: sdk.KindString}},
			}},
			log: &log,
		}
		greeter.onEvent = func(ev sdk.Event, hctx *sdk.Context) error {
			if exec, ok := ev.(sdk.ExecuteCommand); ok && exec.PluginName == "greeter" {
				prefix := hctx.StringSetting("greeting_prefix", "Hello")
				hctx.Emit(sdk.Custom{
					Source:  "greeter",
					Name:    "greeted",
					Payload: fmt.Sprintf("%s, %s!", prefix, exec.Matches.GetOr("name", "world")),
				})
			}
			return nil
		}
		echoer = &testPlugin{
			meta: sdk.Metadata{Name: "echoer", Version: "0.1.0"},
			commands: []sdk.Command{{
				Name: "echo",
				Args: []sdk.Arg{{Name: "message", Required: true, Kind: sdk.KindString}},
			}},
			log: &log,
		}

		libs := map[string]Library{
			"01-greeter" + LibraryExt(): libFor(greeter),
			"02-echoer" + LibraryExt():  libFor(echoer),
		}
		registry = NewRegistry(
			WithOpener(openerFor(libs)),
			WithSettings(map[string]map[string]any{
				"greeter": {"greeting_prefix": "Hola"},
			}),
		)

		dir := GinkgoT().TempDir()
		writeLibFiles(dir, "01-greeter", "02-echoer")
		report, err := registry.LoadDir(context.Background(), dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Failed()).To(BeEmpty())

		router, err = NewRouter(registry)
		Expect(err).NotTo(HaveOccurred())
	})

	It("loads both plugins and aggregates their commands", func() {
		Expect(registry.Plugins()).To(Equal([]string{"greeter", "echoer"}))
		Expect(registry.Commands()).To(HaveLen(2))

		owner, ok := registry.Owner("echo")
		Expect(ok).To(BeTrue())
		Expect(owner).To(Equal("echoer"))
	})

	It("runs the full event sequence for an invocation", func() {
		registry.Broadcast(sdk.Startup{})
		log = nil

		err := router.Execute(context.Background(), Invocation{
			Command: "greet",
			Args:    map[string]string{"name": "Ada"},
			Raw:     []string{"--name", "Ada"},
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(log).To(Equal([]string{
			"greeter:pre-command", "echoer:pre-command",
			"greeter:execute-command", "echoer:execute-command",
			// The greeter's emitted event drains after execute delivery.
			"greeter:custom", "echoer:custom",
			"greeter:post-command", "echoer:post-command",
		}))

		var emitted sdk.Custom
		for _, ev := range echoer.events {
			if cu, ok := ev.(sdk.Custom); ok {
				emitted = cu
			}
		}
		Expect(emitted.Source).To(Equal("greeter"))
		Expect(emitted.Payload).To(Equal("Hola, Ada!"))
	})

	It("tears down in reverse load order", func() {
		log = nil
		registry.Close()
		Expect(log).To(Equal([]string{"OnUnload:echoer", "OnUnload:greeter"}))
	})
})

func writeLibFiles(dir string, names ...string) {
	for _, name := range names {
		path := filepath.Join(dir, name+LibraryExt())
		Expect(os.WriteFile(path, nil, 0o644)).To(Succeed())
	}
}
