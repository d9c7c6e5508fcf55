package sqlinline

// QChargeAndRecordGeneration charges the profile and records the completed
// generation in one statement. The charge is conditional on the allowance so
// concurrent charges against the same profile cannot lose updates or drive
// tokens_used past tokens_total; when the condition matches no row, nothing
// is written and the caller sees pgx.ErrNoRows.
const QChargeAndRecordGeneration = `--sql f4a81d6c-0b93-47e2-a5d8-9c6f2e1b7054
with charged as (
  update profiles
  set tokens_used = tokens_used + $3::int,
      updated_at = now()
  where id = $1::uuid
    and tokens_used + $3::int <= tokens_total
  returning id, tokens_total - tokens_used as tokens_remaining
)
insert into generations(id, user_id, type, prompt, file_url, status, tokens_used, is_favorite, created_at)
select gen_random_uuid(), charged.id, $2::text, $4::text, $5::text, 'completed', $3::int, false, now()
from charged
returning id, (select tokens_remaining from charged);
`

// QInsertGeneration records a completed generation without touching the
// ledger. Used by the zero-cost edit flow.
const QInsertGeneration = `--sql 92b7e0f5-3c4d-48a6-b1e9-7d05a8c6f321
insert into generations(id, user_id, type, prompt, file_url, status, tokens_used, is_favorite, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::text, 'completed', $5::int, false, now())
returning id;
`

const QListGenerations = `--sql 6d3f9a12-84be-4c07-95d1-2e8b0f4a7c65
select
  id,
  user_id,
  type,
  prompt,
  file_url,
  coalesce(thumbnail_url, ''),
  coalesce(width, 0),
  coalesce(height, 0),
  status,
  tokens_used,
  is_favorite,
  created_at,
  count(*) over() as total
from generations
where user_id = $1::uuid
  and ($2::text is null or type = $2::text)
  and (not $3::boolean or is_favorite)
order by created_at desc
limit $4::int offset $5::int;
`

const QSetGenerationFavorite = `--sql a0c5e8d3-17f2-4b69-8e04-c93d6b2a1f87
update generations
set is_favorite = $3::boolean
where id = $1::uuid
  and user_id = $2::uuid
returning id, user_id, type, prompt, file_url, coalesce(thumbnail_url, ''), coalesce(width, 0), coalesce(height, 0), status, tokens_used, is_favorite, created_at;
`

const QDeleteGeneration = `--sql 4b8d2f71-c6a9-40e3-bd57-1f0e9a3c8642
delete from generations
where id = $1::uuid
  and user_id = $2::uuid;
`
