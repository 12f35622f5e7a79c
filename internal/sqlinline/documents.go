package sqlinline

const QInsertDocument = `--sql 0b6d94a2-c3e8-47f1-8a25-d17b09e6c483
insert into documents (id, user_id, title, content, storage_key, is_image, page_count)
values ($1, $2, $3, $4, $5, $6, $7)
returning created_at;
`

const QSelectDocumentByID = `--sql 84f2c1d7-09ab-4e63-b5f8-72e6a4d90c15
select id, user_id, title, content, storage_key, is_image, page_count, created_at, updated_at
from documents
where id = $1;
`

const QListDocumentsByUser = `--sql 5a9e03c4-7d28-41b6-9f70-c482e1b5d396
select id, user_id, title, content, storage_key, is_image, page_count, created_at, updated_at
from documents
where user_id = $1
order by created_at desc;
`

const QDeleteDocument = `--sql 2c70e5a9-148d-4b3f-a627-e95d0b8c3f14
delete from documents where id = $1 and user_id = $2;
`

const QInsertAnalysis = `--sql b3d41f86-9c05-472e-8510-6fa2d9e4c7b3
insert into analyses (id, document_id, type, result)
values ($1, $2, $3, $4)
returning created_at;
`

const QListAnalysesByDocument = `--sql f90a52e1-6d7b-483c-b2e9-04c815a6d9f2
select id, document_id, type, result, created_at
from analyses
where document_id = $1
order by created_at asc;
`
