// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides user tokens and event role checks.

# User Tokens

Tokens are "<user id>.<signature>" where the signature is an HMAC-SHA256 of
the user id:

	token := auth.GenerateUserToken(userID, salt)
	userID, err := auth.ValidateUserToken(token, salt)

The signature is URL-safe base64 encoded without padding. Since it's
deterministic, tokens can be validated without storing them in the database.
Clients send them as "Authorization: Bearer <token>".

# Role Checks

Finalizing polls and managing members require the event owner or a member
with the owner or manager role:

	ok := auth.CanFinalize(actorID, event, memberships)

CanFinalize has the pollengine.FinalizeAuthorizer signature and is injected
into the engine.

# ID Generation

Random hex IDs, used for poll option ids:

	id, err := auth.GenerateID(6)  // 12 hex characters
*/
package auth
