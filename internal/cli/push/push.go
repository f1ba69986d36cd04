package push

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/push"
)

// KeygenCmd creates the VAPID key pair browsers use to verify pushes.
type KeygenCmd struct {
	Force bool `help:"Replace existing keys. Existing subscriptions stop working."`
}

func (c *KeygenCmd) Run(ctx *cli.Context) error {
	svc := push.NewService(ctx.Store)
	if !c.Force {
		if key, err := svc.PublicKey(ctx.Background()); err == nil {
			fmt.Println("VAPID keys already exist. Use --force to replace them.")
			fmt.Printf("Public key: %s\n", key)
			return nil
		} else if !errors.Is(err, push.ErrNoKeys) {
			return err
		}
	}

	key, err := svc.GenerateKeys(ctx.Background())
	if err != nil {
		return err
	}
	fmt.Println("✓ Generated VAPID keys (private key stored in OS keyring)")
	fmt.Printf("Public key: %s\n", key)
	return nil
}

type KeyCmd struct{}

func (c *KeyCmd) Run(ctx *cli.Context) error {
	key, err := push.NewService(ctx.Store).PublicKey(ctx.Background())
	if err != nil {
		return err
	}
	fmt.Println(key)
	return nil
}

// SubscribeCmd registers the browser subscription JSON produced by
// PushManager.subscribe().
type SubscribeCmd struct {
	File string `arg:"" help:"Subscription JSON file, or - for stdin."`
}

func (c *SubscribeCmd) Run(ctx *cli.Context) error {
	var (
		raw []byte
		err error
	)
	if c.File == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(c.File)
	}
	if err != nil {
		return fmt.Errorf("failed to read subscription: %w", err)
	}

	if err := push.NewService(ctx.Store).Subscribe(ctx.Background(), raw); err != nil {
		return err
	}
	fmt.Println("✓ Push subscription saved")
	return nil
}

type UnsubscribeCmd struct{}

func (c *UnsubscribeCmd) Run(ctx *cli.Context) error {
	if err := push.NewService(ctx.Store).Unsubscribe(ctx.Background()); err != nil {
		return err
	}
	fmt.Println("✓ Push subscription removed")
	return nil
}
