package sqlinline

const QSelectProfileByID = `--sql 7c1f4b9e-2d6a-4f1b-9c3e-5a8d0e7b2f41
select
  id,
  email,
  coalesce(name, ''),
  coalesce(avatar_url, ''),
  plan,
  tokens_total,
  tokens_used,
  tokens_reset_at,
  created_at,
  updated_at
from profiles
where id = $1::uuid
limit 1;
`

const QSelectTokenBalance = `--sql 3e9a7d25-61c4-4b0f-8a92-d4f6b1c83e07
select tokens_used, tokens_total
from profiles
where id = $1::uuid
limit 1;
`

const QUpdateProfile = `--sql b5d20c8a-97e3-4f56-b1a4-0c2e6d9f7a38
update profiles
set
  name = coalesce($2::text, name),
  avatar_url = coalesce($3::text, avatar_url),
  updated_at = now()
where id = $1::uuid
returning id, email, coalesce(name, ''), coalesce(avatar_url, ''), plan, tokens_total, tokens_used, tokens_reset_at, created_at, updated_at;
`

const QProfileStats = `--sql 18f6c3b2-ae05-4d71-92c8-6b4e0a5d9f13
select
  count(*) filter (where type = 'image')  as images_generated,
  count(*) filter (where type = 'video')  as videos_created,
  count(*) filter (where is_favorite)     as favorites
from generations
where user_id = $1::uuid;
`
