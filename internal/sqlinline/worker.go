package sqlinline

const QEnqueueAnalysisJob = `--sql 47e0b9c2-d516-4a84-bf37-19d8e6a0c525
insert into analysis_jobs (id, document_id, user_id, type, status)
values ($1, $2, $3, $4, 'QUEUED')
returning created_at;
`

// Claims the oldest queued job. SKIP LOCKED lets multiple workers poll the
// same table without stepping on each other.
const QClaimAnalysisJob = `--sql a815f3d6-0c92-4e7b-86d4-5b20c9e1f738
with next_job as (
    select id
    from analysis_jobs
    where status = 'QUEUED'
    order by created_at asc
    for update skip locked
    limit 1
)
update analysis_jobs j
set status = 'RUNNING', updated_at = now()
from next_job
where j.id = next_job.id
returning j.id, j.document_id, j.user_id, j.type;
`

const QFinishAnalysisJob = `--sql 19c6e8f4-b237-4d05-a9e1-84d5f027b6c9
update analysis_jobs
set status = $2,
    error = $3,
    updated_at = now()
where id = $1;
`

const QSelectAnalysisJob = `--sql 7d38a0e5-61fc-4b92-bd08-3e94c6a817d0
select id, document_id, user_id, type, status, coalesce(error, ''), created_at, updated_at
from analysis_jobs
where id = $1;
`
