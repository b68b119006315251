package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hostchain/fungible-token-contract/common"
	"github.com/hostchain/fungible-token-contract/contracts/fungible"
	"github.com/hostchain/fungible-token-contract/contracts/fungible/fungibleconst"
	"github.com/hostchain/fungible-token-contract/deploy"
	"github.com/hostchain/fungible-token-contract/host"
	"github.com/hostchain/fungible-token-contract/sandbox"
)

// defaultNativeBalance funds freshly created accounts with enough native
// value for storage deposits and attached payments.
const defaultNativeBalance = "1000000000000000000000000"

// oneDeposit is the attached deposit required by value-moving methods.
func oneDeposit() common.Amount { return common.NewAmount(1) }

func initCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the token contract with the configured genesis",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.close()

			owner, err := host.ParseAccountID(v.GetString("genesis.owner"))
			if err != nil {
				return fmt.Errorf("genesis owner: %w", err)
			}
			supply, err := common.AmountFromDecimal(v.GetString("genesis.total_supply"))
			if err != nil {
				return fmt.Errorf("genesis total supply: %w", err)
			}

			funds, _ := common.AmountFromDecimal(defaultNativeBalance)
			a.ensureAccount(owner, funds)

			err = deploy.Deploy(deploy.Prm{
				Logger:          a.log,
				Host:            a.sb,
				ContractAccount: a.contractID,
				Owner:           owner,
				TotalSupply:     supply,
				Metadata: fungible.Metadata{
					Spec:     fungible.MetadataSpec,
					Name:     v.GetString("genesis.metadata.name"),
					Symbol:   v.GetString("genesis.metadata.symbol"),
					Decimals: uint8(v.GetUint("genesis.metadata.decimals")),
				},
			})
			if err != nil {
				return err
			}

			fmt.Printf("Token initialized at @%s, %s minted to @%s\n",
				a.contractID, supply, owner)
			return nil
		},
	}
}

func accountCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage sandbox accounts",
	}

	var balance string
	create := &cobra.Command{
		Use:   "create <account>",
		Short: "Create an account holding native value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.close()

			id, err := host.ParseAccountID(args[0])
			if err != nil {
				return err
			}
			bal, err := common.AmountFromDecimal(balance)
			if err != nil {
				return fmt.Errorf("balance: %w", err)
			}

			a.ensureAccount(id, bal)
			fmt.Printf("Account @%s created with %s of native value\n", id, bal)
			return nil
		},
	}
	create.Flags().StringVar(&balance, "balance", defaultNativeBalance,
		"Native balance of the new account, in atomic units")

	list := &cobra.Command{
		Use:   "list",
		Short: "List known accounts and their native balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.close()

			for id := range a.accounts {
				fmt.Printf("@%s\t%s\n", id, a.sb.NativeBalance(id))
			}
			return nil
		},
	}

	cmd.AddCommand(create, list)
	return cmd
}

func transferCommand(v *viper.Viper) *cobra.Command {
	var memo string
	cmd := &cobra.Command{
		Use:   "transfer <receiver> <amount>",
		Short: "Transfer tokens from the signer to the receiver",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.close()

			callArgs := map[string]any{
				"receiver_id": args[0],
				"amount":      args[1],
			}
			if memo != "" {
				callArgs["memo"] = memo
			}

			_, err = a.call(fungibleconst.MethodTransfer, callArgs,
				sandbox.CallOpts{Deposit: oneDeposit()})
			return err
		},
	}
	cmd.Flags().StringVar(&memo, "memo", "", "Memo recorded in the transfer event")
	return cmd
}

func transferCallCommand(v *viper.Viper) *cobra.Command {
	var memo, msg string
	cmd := &cobra.Command{
		Use:   "transfer-call <receiver> <amount>",
		Short: "Transfer tokens and notify the receiver contract",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.close()

			callArgs := map[string]any{
				"receiver_id": args[0],
				"amount":      args[1],
				"msg":         msg,
			}
			if memo != "" {
				callArgs["memo"] = memo
			}

			res, err := a.call(fungibleconst.MethodTransferCall, callArgs,
				sandbox.CallOpts{Deposit: oneDeposit()})
			if err != nil {
				return err
			}
			fmt.Printf("Used amount: %s\n", string(res.Value))
			return nil
		},
	}
	cmd.Flags().StringVar(&memo, "memo", "", "Memo recorded in the transfer event")
	cmd.Flags().StringVar(&msg, "msg", "", "Message forwarded to the receiver")
	return cmd
}

func balanceOfCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "balance-of <account>",
		Short: "Print the token balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.close()

			return a.view(fungibleconst.MethodBalanceOf,
				map[string]any{"account_id": args[0]})
		},
	}
}

func totalSupplyCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "total-supply",
		Short: "Print the total token supply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.close()

			return a.view(fungibleconst.MethodTotalSupply, nil)
		},
	}
}

func metadataCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "metadata",
		Short: "Print the token metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.close()

			return a.view(fungibleconst.MethodMetadata, nil)
		},
	}
}

func storageCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Manage storage registrations",
	}

	var depositFor string
	var registrationOnly bool
	depositCmd := &cobra.Command{
		Use:   "deposit <amount>",
		Short: "Attach a storage deposit, registering the target account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.close()

			deposit, err := common.AmountFromDecimal(args[0])
			if err != nil {
				return fmt.Errorf("deposit: %w", err)
			}

			callArgs := map[string]any{}
			if depositFor != "" {
				callArgs["account_id"] = depositFor
			}
			if registrationOnly {
				callArgs["registration_only"] = true
			}

			res, err := a.call(fungibleconst.MethodStorageDeposit, callArgs,
				sandbox.CallOpts{Deposit: deposit})
			if err != nil {
				return err
			}
			fmt.Println(string(res.Value))
			return nil
		},
	}
	depositCmd.Flags().StringVar(&depositFor, "for", "",
		"Account to register (default the signer)")
	depositCmd.Flags().BoolVar(&registrationOnly, "registration-only", false,
		"Refund everything above the minimum storage balance")

	withdrawCmd := &cobra.Command{
		Use:   "withdraw [amount]",
		Short: "Withdraw from the available storage balance of the signer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.close()

			callArgs := map[string]any{}
			if len(args) == 1 {
				callArgs["amount"] = args[0]
			}

			res, err := a.call(fungibleconst.MethodStorageWithdraw, callArgs,
				sandbox.CallOpts{Deposit: oneDeposit()})
			if err != nil {
				return err
			}
			fmt.Println(string(res.Value))
			return nil
		},
	}

	var force bool
	unregisterCmd := &cobra.Command{
		Use:   "unregister",
		Short: "Unregister the signer and refund its storage balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.close()

			callArgs := map[string]any{}
			if force {
				callArgs["force"] = true
			}

			res, err := a.call(fungibleconst.MethodStorageUnregister, callArgs,
				sandbox.CallOpts{Deposit: oneDeposit()})
			if err != nil {
				return err
			}
			fmt.Println(string(res.Value))
			return nil
		},
	}
	unregisterCmd.Flags().BoolVar(&force, "force", false,
		"Burn any remaining token balance instead of refusing")

	boundsCmd := &cobra.Command{
		Use:   "bounds",
		Short: "Print the storage balance bounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.close()

			return a.view(fungibleconst.MethodStorageBalanceBounds, nil)
		},
	}

	balanceCmd := &cobra.Command{
		Use:   "balance-of <account>",
		Short: "Print the storage balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(v)
			if err != nil {
				return err
			}
			defer a.close()

			return a.view(fungibleconst.MethodStorageBalanceOf,
				map[string]any{"account_id": args[0]})
		},
	}

	cmd.AddCommand(depositCmd, withdrawCmd, unregisterCmd, boundsCmd, balanceCmd)
	return cmd
}
