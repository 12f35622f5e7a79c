package sqlinline

const QInsertQuiz = `--sql 6e2f40b8-a9d1-4c57-b3e0-f58a27c9d614
insert into quizzes (id, document_id, user_id, title, description, questions, total_points, time_limit_minutes)
values ($1, $2, $3, $4, $5, $6, $7, $8)
returning created_at;
`

const QSelectQuizByID = `--sql cd94b1e7-35f0-4a28-9c63-07e8d4b2a1f5
select id, document_id, user_id, title, description, questions, total_points, time_limit_minutes, created_at
from quizzes
where id = $1;
`

const QInsertQuizSubmission = `--sql 30a7c5d9-e481-4f26-b90d-51c3e8f7a062
insert into quiz_submissions (id, quiz_id, user_id, answers, results, score, max_score, percentage)
values ($1, $2, $3, $4, $5, $6, $7, $8)
returning created_at;
`
