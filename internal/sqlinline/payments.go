package sqlinline

const QInsertPayment = `--sql 52d8f1a3-b674-4c09-8e25-a90bd3c6e147
insert into payments (id, user_id, provider, provider_ref, plan, period, amount, currency, status)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
returning created_at;
`

const QUpdatePaymentStatus = `--sql 8b31e6c0-47d9-4af2-95b8-d62f0a4e9c73
update payments
set status = $2,
    updated_at = now()
where provider = $3 and provider_ref = $1;
`
