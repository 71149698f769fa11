// Package services holds the domain logic behind each route group. Every
// service is built on an injected store.RecordStore.
package services

import "github.com/inyangojubirobert/bookofmemes-backend/store"

type Services struct {
	Comments     *CommentService
	Profiles     *ProfileService
	Feeds        *FeedService
	Interactions *InteractionService
	Bookmarks    *BookmarkService
	Users        *UserService
	Content      *ContentService
	Follows      *FollowService
	Stories      *StoryService
	Wallet       *WalletService
	Devices      *DeviceTokenService
}

func New(s store.RecordStore, n Notifier) *Services {
	if n == nil {
		n = NopNotifier{}
	}
	return &Services{
		Comments:     NewCommentService(s, n),
		Profiles:     NewProfileService(s),
		Feeds:        NewFeedService(s),
		Interactions: NewInteractionService(s),
		Bookmarks:    NewBookmarkService(s),
		Users:        NewUserService(s),
		Content:      NewContentService(s),
		Follows:      NewFollowService(s, n),
		Stories:      NewStoryService(s),
		Wallet:       NewWalletService(s),
		Devices:      NewDeviceTokenService(s),
	}
}
