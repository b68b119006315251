/*
Package fungible implements a fungible token ledger deployed as a guest
program on an asynchronous execution host.

The contract keeps one ledger entry per registered account and a total
supply scalar; at every call boundary the supply equals the sum of all
registered balances. An entry exists from registration until
unregistration, independently of its balance: holding zero tokens and not
being tracked are different states.

Registration is staked. An account (or a sponsor on its behalf) pre-pays
the storage cost of its ledger entry with storage_deposit; the stake is
fixed (entries never grow) and flows back on storage_unregister. An entry
still holding tokens is only removed under force, which burns the remaining
balance and logs

	Closed @<account> with <amount>

Value moves either with ft_transfer, or with ft_transfer_call which pays
the receiver and then notifies it: the receiver's ft_on_transfer runs as a
separate asynchronous call and reports the portion of the amount it did not
use. The ft_resolve_transfer callback, scheduled by the contract and run by
the host exactly once, claws the unused portion back to the sender - or
burns it, should the sender have unregistered in the meantime, logging

	Account @<account> burned <amount>

A failed or malformed notification counts as fully unused, so a misbehaving
receiver never costs the sender funds.

Contract events

Supply and balance changes are also emitted as EVENT_JSON: log lines with
the nep141 envelope:

	ft_mint:
	  - name: owner_id
	    type: AccountID
	  - name: amount
	    type: Amount

	ft_transfer:
	  - name: old_owner_id
	    type: AccountID
	  - name: new_owner_id
	    type: AccountID
	  - name: amount
	    type: Amount

	ft_burn:
	  - name: owner_id
	    type: AccountID
	  - name: amount
	    type: Amount
*/
package fungible
