package eventhub_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	berr "github.com/next-trace/scg-event-hub/contract/errors"
	cevt "github.com/next-trace/scg-event-hub/contract/event"
	"github.com/next-trace/scg-event-hub/eventhub"
)

type salesOffice struct {
	eventhub.Mixin
	Name string
}

type loginPublisher struct {
	eventhub.Mixin
}

var _ cevt.Carrier = (*salesOffice)(nil)

func TestInstall_GivesTargetHubBehaviour(t *testing.T) {
	office := eventhub.Install(&salesOffice{Name: "downtown"})
	require.True(t, office.Installed())

	var got []string
	sub1, err := office.Subscribe("squareMeter88", func(ctx context.Context, args ...any) error {
		got = append(got, fmt.Sprintf("fn1:%v", args[0]))
		return nil
	})
	require.NoError(t, err)

	_, err = office.Subscribe("squareMeter100", func(ctx context.Context, args ...any) error {
		got = append(got, fmt.Sprintf("fn2:%v", args[0]))
		return nil
	})
	require.NoError(t, err)

	sub3, err := office.Subscribe("squareMeter100", func(ctx context.Context, args ...any) error {
		got = append(got, fmt.Sprintf("fn3:%v", args[0]))
		return nil
	})
	require.NoError(t, err)

	office.Unsubscribe("squareMeter88", sub1)
	office.Unsubscribe("squareMeter100", sub3)

	ok, err := office.Publish(t.Context(), "squareMeter88", 2000000)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = office.Publish(t.Context(), "squareMeter100", 3000000)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []string{"fn2:3000000"}, got)
}

func TestInstall_TargetsGetIndependentStorage(t *testing.T) {
	a := eventhub.Install(&salesOffice{Name: "a"})
	b := eventhub.Install(&loginPublisher{})

	calls := 0
	_, err := a.Subscribe("loginSuc", func(ctx context.Context, args ...any) error {
		calls++
		return nil
	})
	require.NoError(t, err)

	ok, err := b.Publish(t.Context(), "loginSuc", "avatar")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, calls)

	ok, err = a.Publish(t.Context(), "loginSuc", "avatar")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, calls)
}

func TestInstall_SameTypeTwiceIsIndependent(t *testing.T) {
	a := eventhub.Install(&salesOffice{Name: "a"})
	b := eventhub.Install(&salesOffice{Name: "b"})

	_, _ = a.Subscribe("t", func(ctx context.Context, args ...any) error { return nil })

	assert.Equal(t, 1, a.Hub.(*eventhub.Hub).Len("t"))
	assert.Zero(t, b.Hub.(*eventhub.Hub).Len("t"))
}

func TestInstall_OptionsApplyToInstalledHub(t *testing.T) {
	office := eventhub.Install(&salesOffice{}, eventhub.WithFaultIsolation())

	delivered := 0
	_, _ = office.Subscribe("t", func(ctx context.Context, args ...any) error { return errors.New("x") })
	_, _ = office.Subscribe("t", func(ctx context.Context, args ...any) error {
		delivered++
		return nil
	})

	_, err := office.Publish(t.Context(), "t")
	require.ErrorIs(t, err, berr.ErrHandlerFault)
	assert.Equal(t, 1, delivered)
}

func TestMixin_NotInstalled(t *testing.T) {
	var office salesOffice
	assert.False(t, office.Installed())
}

func TestMixin_ZeroHostIsUsable(t *testing.T) {
	var office salesOffice

	ok, err := office.Publish(t.Context(), "squareMeter88", 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, office.Installed())

	assert.False(t, office.Unsubscribe("squareMeter88"))

	var got []any
	sub, err := office.Subscribe("squareMeter88", func(ctx context.Context, args ...any) error {
		got = args
		return nil
	})
	require.NoError(t, err)

	ok, err = office.Publish(t.Context(), "squareMeter88", 2000000)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []any{2000000}, got)

	assert.True(t, office.Unsubscribe("squareMeter88", sub))
}

func TestMixin_InstallReplacesDefaultHub(t *testing.T) {
	var office salesOffice

	_, err := office.Subscribe("t", func(ctx context.Context, args ...any) error { return nil })
	require.NoError(t, err)

	eventhub.Install(&office)

	ok, err := office.Publish(t.Context(), "t")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoginModulesShareOnePublisher(t *testing.T) {
	login := eventhub.Install(&loginPublisher{})

	type profile struct{ Avatar string }

	var header, nav string

	_, err := eventhub.SubscribeOf(login, "loginSuc", func(ctx context.Context, p profile) error {
		header = p.Avatar
		return nil
	})
	require.NoError(t, err)

	_, err = eventhub.SubscribeOf(login, "loginSuc", func(ctx context.Context, p profile) error {
		nav = p.Avatar
		return nil
	})
	require.NoError(t, err)

	_, err = login.Publish(t.Context(), "loginSuc", profile{Avatar: "a.jpg"})
	require.NoError(t, err)

	assert.Equal(t, "a.jpg", header)
	assert.Equal(t, "a.jpg", nav)
}
