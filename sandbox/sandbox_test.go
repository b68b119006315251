package sandbox_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostchain/fungible-token-contract/common"
	"github.com/hostchain/fungible-token-contract/host"
	"github.com/hostchain/fungible-token-contract/sandbox"
)

// scriptContract dispatches every invocation to a single function, letting a
// test script arbitrary host interactions.
type scriptContract struct {
	fn func(env host.Env, method string, args []byte) host.PromiseOrValue
}

func (c scriptContract) Invoke(env host.Env, method string, args []byte) host.PromiseOrValue {
	return c.fn(env, method, args)
}

const (
	alice = host.AccountID("alice")
	appID = host.AccountID("app")
	svcID = host.AccountID("svc")
)

func TestCallRollsBackFailedReceipt(t *testing.T) {
	sb := sandbox.New()
	sb.CreateAccount(alice, common.NewAmount(100))
	sb.DeployContract(appID, scriptContract{fn: func(env host.Env, method string, args []byte) host.PromiseOrValue {
		env.State().Put([]byte("k"), []byte("v"))
		if method == "fail" {
			panic(errors.New("scripted failure"))
		}
		return host.Value([]byte("ok"))
	}})

	res := sb.Call(alice, appID, "fail", nil, sandbox.CallOpts{Deposit: common.NewAmount(7)})
	require.Error(t, res.Err)
	require.EqualError(t, res.Err, "scripted failure")

	// State write undone, deposit returned.
	require.Nil(t, sb.State(appID).Get([]byte("k")))
	require.Equal(t, common.NewAmount(100), sb.NativeBalance(alice))
	require.True(t, sb.NativeBalance(appID).IsZero())

	res = sb.Call(alice, appID, "ok", nil, sandbox.CallOpts{Deposit: common.NewAmount(7)})
	require.NoError(t, res.Err)
	require.Equal(t, []byte("ok"), res.Value)
	require.Equal(t, []byte("v"), sb.State(appID).Get([]byte("k")))
	require.Equal(t, common.NewAmount(93), sb.NativeBalance(alice))
	require.Equal(t, common.NewAmount(7), sb.NativeBalance(appID))
}

func TestCallRequiresDeployedContract(t *testing.T) {
	sb := sandbox.New()
	sb.CreateAccount(alice, common.NewAmount(1))

	res := sb.Call(alice, appID, "anything", nil, sandbox.CallOpts{})
	require.Error(t, res.Err)
	require.Contains(t, res.Err.Error(), "has no contract deployed")
}

func TestCallRejectsInsufficientDeposit(t *testing.T) {
	sb := sandbox.New()
	sb.CreateAccount(alice, common.NewAmount(5))
	sb.DeployContract(appID, scriptContract{fn: func(env host.Env, method string, args []byte) host.PromiseOrValue {
		return host.Value(nil)
	}})

	res := sb.Call(alice, appID, "m", nil, sandbox.CallOpts{Deposit: common.NewAmount(10)})
	require.Error(t, res.Err)
	require.Equal(t, common.NewAmount(5), sb.NativeBalance(alice))
}

func TestPromiseChainDeliversResult(t *testing.T) {
	sb := sandbox.New()
	sb.CreateAccount(alice, common.Amount{})

	sb.DeployContract(svcID, scriptContract{fn: func(env host.Env, method string, args []byte) host.PromiseOrValue {
		require.Equal(t, "work", method)
		return host.Value([]byte("worked on " + string(args)))
	}})
	sb.DeployContract(appID, scriptContract{fn: func(env host.Env, method string, args []byte) host.PromiseOrValue {
		switch method {
		case "run":
			p := env.CallMethod(svcID, "work", args, common.Amount{}, 10*host.TGas).
				Then("finish", nil, 5*host.TGas)
			return host.PromiseOrValue{Promise: p}
		case "finish":
			res, ok := env.PromiseResult()
			require.True(t, ok)
			require.True(t, res.Success)
			return host.Value(append([]byte("finished: "), res.Value...))
		default:
			panic(errors.New("unexpected method " + method))
		}
	}})

	res := sb.Call(alice, appID, "run", []byte("x"), sandbox.CallOpts{})
	require.NoError(t, res.Err)
	require.Equal(t, []byte("finished: worked on x"), res.Value)
}

func TestPromiseChainDeliversFailureExactlyOnce(t *testing.T) {
	sb := sandbox.New()
	sb.CreateAccount(alice, common.Amount{})

	sb.DeployContract(svcID, scriptContract{fn: func(env host.Env, method string, args []byte) host.PromiseOrValue {
		panic(errors.New("service down"))
	}})

	var callbacks int
	sb.DeployContract(appID, scriptContract{fn: func(env host.Env, method string, args []byte) host.PromiseOrValue {
		switch method {
		case "run":
			p := env.CallMethod(svcID, "work", nil, common.Amount{}, 10*host.TGas).
				Then("finish", nil, 5*host.TGas)
			return host.PromiseOrValue{Promise: p}
		case "finish":
			callbacks++
			res, ok := env.PromiseResult()
			require.True(t, ok)
			require.False(t, res.Success)
			require.Empty(t, res.Value)
			return host.Value([]byte("handled"))
		default:
			panic(errors.New("unexpected method " + method))
		}
	}})

	res := sb.Call(alice, appID, "run", nil, sandbox.CallOpts{})
	require.NoError(t, res.Err)
	require.Equal(t, []byte("handled"), res.Value)
	require.Equal(t, 1, callbacks)
}

func TestFailedReceiptDropsScheduledCalls(t *testing.T) {
	sb := sandbox.New()
	sb.CreateAccount(alice, common.Amount{})

	var svcCalls int
	sb.DeployContract(svcID, scriptContract{fn: func(env host.Env, method string, args []byte) host.PromiseOrValue {
		svcCalls++
		return host.Value(nil)
	}})
	sb.DeployContract(appID, scriptContract{fn: func(env host.Env, method string, args []byte) host.PromiseOrValue {
		env.CallMethod(svcID, "work", nil, common.Amount{}, 10*host.TGas)
		panic(errors.New("after scheduling"))
	}})

	res := sb.Call(alice, appID, "run", nil, sandbox.CallOpts{})
	require.Error(t, res.Err)
	require.Zero(t, svcCalls)
}

func TestBeginStepInterleavesCalls(t *testing.T) {
	sb := sandbox.New()
	sb.CreateAccount(alice, common.Amount{})

	sb.DeployContract(svcID, scriptContract{fn: func(env host.Env, method string, args []byte) host.PromiseOrValue {
		return host.Value(env.State().Get([]byte("note")))
	}})
	sb.DeployContract(appID, scriptContract{fn: func(env host.Env, method string, args []byte) host.PromiseOrValue {
		switch method {
		case "run":
			p := env.CallMethod(svcID, "read", nil, common.Amount{}, 10*host.TGas).
				Then("finish", nil, 5*host.TGas)
			return host.PromiseOrValue{Promise: p}
		case "finish":
			res, _ := env.PromiseResult()
			return host.Value(res.Value)
		default:
			panic(errors.New("unexpected method " + method))
		}
	}})

	res := sb.Begin(alice, appID, "run", nil, sandbox.CallOpts{})
	require.NoError(t, res.Err)
	require.Nil(t, res.Value)

	// Mutate the service state between the entry call and the queued read,
	// the way an unrelated transaction would land in between.
	sb.State(svcID).Put([]byte("note"), []byte("injected"))

	sb.Settle()
	require.NoError(t, res.Err)
	require.Equal(t, []byte("injected"), res.Value)
}

func TestViewCarriesNoDeposit(t *testing.T) {
	sb := sandbox.New()
	sb.DeployContract(appID, scriptContract{fn: func(env host.Env, method string, args []byte) host.PromiseOrValue {
		require.True(t, env.AttachedDeposit().IsZero())
		require.Equal(t, sandbox.SystemAccount, env.PredecessorID())
		return host.Value([]byte("viewed"))
	}})

	res := sb.View(appID, "m", nil)
	require.NoError(t, res.Err)
	require.Equal(t, []byte("viewed"), res.Value)
}

func TestLogsAggregateAcrossChain(t *testing.T) {
	sb := sandbox.New()
	sb.CreateAccount(alice, common.Amount{})

	sb.DeployContract(svcID, scriptContract{fn: func(env host.Env, method string, args []byte) host.PromiseOrValue {
		env.Log("svc log")
		return host.Value(nil)
	}})
	sb.DeployContract(appID, scriptContract{fn: func(env host.Env, method string, args []byte) host.PromiseOrValue {
		switch method {
		case "run":
			env.Log("app log")
			p := env.CallMethod(svcID, "work", nil, common.Amount{}, 10*host.TGas).
				Then("finish", nil, 5*host.TGas)
			return host.PromiseOrValue{Promise: p}
		case "finish":
			env.Log("callback log")
			return host.Value(nil)
		default:
			panic(errors.New("unexpected method " + method))
		}
	}})

	res := sb.Call(alice, appID, "run", nil, sandbox.CallOpts{})
	require.NoError(t, res.Err)
	require.Equal(t, []string{"app log", "svc log", "callback log"}, res.Logs)
}

func TestStorageUsageTracksBytes(t *testing.T) {
	sb := sandbox.New()
	sb.CreateAccount(alice, common.Amount{})
	sb.DeployContract(appID, scriptContract{fn: func(env host.Env, method string, args []byte) host.PromiseOrValue {
		switch method {
		case "put":
			env.State().Put([]byte("key"), []byte("value"))
		case "del":
			env.State().Delete([]byte("key"))
		}
		return host.Value(usageString(env.StorageUsage()))
	}})

	res := sb.Call(alice, appID, "put", nil, sandbox.CallOpts{})
	require.NoError(t, res.Err)
	require.Equal(t, []byte("8"), res.Value) // len("key")+len("value")

	res = sb.Call(alice, appID, "del", nil, sandbox.CallOpts{})
	require.NoError(t, res.Err)
	require.Equal(t, []byte("0"), res.Value)
}

func usageString(u uint64) []byte {
	return []byte(common.NewAmount(u).String())
}
