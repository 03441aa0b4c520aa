package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/on-the-ground/react_ive_go/reactive/guard"
	"github.com/on-the-ground/react_ive_go/reactive/mirror"
	"github.com/on-the-ground/react_ive_go/reactive/resource"
	"github.com/on-the-ground/react_ive_go/reactive/watch"
	"github.com/on-the-ground/react_ive_go/store/memstore"
)

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted tour of the reactive primitives",
		Long: `Run a scripted tour of the reactive primitives.

Shows a stale async result being discarded, a slot write landing in the
store, and an outside-interaction guard firing. Uses in-memory backends
only; nothing is persisted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd)
		},
	}
}

func runDemo(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if err := demoStaleDiscard(ctx, out); err != nil {
		return err
	}
	if err := demoSlot(ctx, out); err != nil {
		return err
	}
	return demoGuard(ctx, out)
}

// demoStaleDiscard runs two generations where the first is slower than
// the second, showing that only the second's value is ever observed.
func demoStaleDiscard(ctx context.Context, out io.Writer) error {
	fmt.Fprintln(out, "-- stale results are discarded --")

	res := resource.New(ctx, nil, func(ctx context.Context, deps watch.Set) (string, error) {
		query := deps[0].(string)
		delay := 20 * time.Millisecond
		if query == "slow" {
			delay = 150 * time.Millisecond
		}
		select {
		case <-time.After(delay):
			return "result for " + query, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}, resource.Options[string]{Debounce: time.Millisecond})
	defer res.Close()

	ch, stop := res.Watch()
	defer stop()

	res.Update(watch.Of("slow"))
	time.Sleep(30 * time.Millisecond)
	res.Update(watch.Of("fast"))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case st := <-ch:
			if st.Phase == resource.Pending {
				fmt.Fprintf(out, "generation %d started\n", st.Generation)
				continue
			}
			if st.Phase == resource.Failed {
				return st.Err
			}
			fmt.Fprintf(out, "generation %d settled: %q\n", st.Generation, st.Value)
			fmt.Fprintln(out, "the slower first generation never surfaced")
			fmt.Fprintln(out)
			return nil
		case <-deadline:
			return fmt.Errorf("demo: no settled status within 2s")
		}
	}
}

// demoSlot writes through a mirror slot backed by an in-memory store
// and shows the flushed bytes.
func demoSlot(ctx context.Context, out io.Writer) error {
	fmt.Fprintln(out, "-- slot writes land in the store --")

	kv := memstore.New()
	reg := mirror.NewRegistry(ctx, kv, mirror.RegistryOptions{FlushDelay: 10 * time.Millisecond})
	defer reg.Close()

	slot := mirror.NewSlot(ctx, reg, "settings.theme", "light", mirror.StringCodec{}, mirror.SlotOptions{})
	fmt.Fprintf(out, "hydrated: %s\n", slot.Get())

	slot.Set("dark")
	fmt.Fprintf(out, "after Set: %s\n", slot.Get())
	slot.Close()

	stored, err := kv.Get(ctx, "settings.theme")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "stored:    %s\n", stored)
	fmt.Fprintln(out)
	return nil
}

// demoGuard publishes one interaction inside the region and one outside,
// showing that only the outside one fires the callback.
func demoGuard(ctx context.Context, out io.Writer) error {
	fmt.Fprintln(out, "-- outside interactions dismiss --")

	hub := guard.NewHub(ctx, 8)
	defer hub.Close()

	fired := make(chan guard.Interaction, 1)
	g := guard.New(hub)
	defer g.Close()

	err := g.Activate(guard.RegionFunc(func(target any) bool {
		return target == "menu"
	}), func(i guard.Interaction) {
		select {
		case fired <- i:
		default:
		}
	})
	if err != nil {
		return err
	}

	hub.Publish(guard.Interaction{Kind: guard.KindPointerDown, Target: "menu"})
	fmt.Fprintln(out, "pointer down on menu: ignored")

	hub.Publish(guard.Interaction{Kind: guard.KindPointerDown, Target: "backdrop"})
	select {
	case i := <-fired:
		fmt.Fprintf(out, "pointer down on %v: dismissed\n", i.Target)
	case <-time.After(2 * time.Second):
		return fmt.Errorf("demo: outside interaction never fired")
	}
	return nil
}
