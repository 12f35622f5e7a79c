package sqlinline

const QSelectUserByID = `--sql 3f1c2a8e-5d14-4a6b-9c07-2b91e4d8a530
select id, email, name, locale, currency_pref, role, plan, documents_count, analyses_used, created_at, updated_at
from users
where id = $1;
`

const QSelectUserByEmail = `--sql 71b4e902-8c3d-4f5a-b1e6-0d72c9a4f815
select id, email, name, locale, currency_pref, role, plan, documents_count, analyses_used, created_at, updated_at
from users
where lower(email) = lower($1);
`

const QUpdateUserPlan = `--sql c58a917d-2e46-4b38-a90f-6e13d7b2c044
update users
set plan = $2,
    analyses_used = case when $3::bool then analyses_used else 0 end,
    updated_at = now()
where id = $1
returning id, email, plan;
`

const QAdjustDocumentsCount = `--sql 9d20f6b3-471a-4c8e-8b52-ae94c1d07f66
update users
set documents_count = greatest(documents_count + $2, 0),
    updated_at = now()
where id = $1;
`

const QIncrementAnalysesUsed = `--sql e7a35c09-6b82-4d17-95f4-38c0b6d1a972
update users
set analyses_used = analyses_used + 1,
    updated_at = now()
where id = $1;
`
