package users

import "platefeed/internal/api/view"

type RegisterUserResponse = view.User

type GetUserResponse = view.User

type SubscribeResponse = view.Subscription
