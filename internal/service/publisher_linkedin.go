package service

import (
	"Crosspost/internal/model"
	"Crosspost/internal/pkg/consts"
	"Crosspost/internal/pkg/social"
	"context"
	log "log/slog"
)

type LinkedinAPI interface {
	CreateUGCPost(ctx context.Context, accessToken string, post *social.UGCPost) (string, error)
}

type linkedinPublisher struct {
	api LinkedinAPI
}

func NewLinkedinPublisher(api LinkedinAPI) Publisher {
	return &linkedinPublisher{api: api}
}

func (p *linkedinPublisher) Platform() model.Platform { return model.PlatformLinkedin }

func (p *linkedinPublisher) Publish(ctx context.Context, binding *model.PlatformBinding, cred *Credential, content model.Content) (*PublishedPost, error) {
	c, ok := content.(*model.LinkedinContent)
	if !ok {
		return nil, contentMismatch(model.PlatformLinkedin, content)
	}

	share := social.UGCShareContent{
		ShareCommentary:    social.UGCText{Text: c.ShareCommentary},
		ShareMediaCategory: string(c.ShareMediaCategory),
	}
	if c.ShareMediaCategory != model.LinkedinMediaNone {
		share.Media = c.Media
	}

	id, err := p.api.CreateUGCPost(ctx, cred.AccessToken, &social.UGCPost{
		Author:          consts.LinkedinPersonURNPrefix + binding.ProfileID,
		LifecycleState:  consts.LinkedinLifecyclePublished,
		SpecificContent: social.UGCSpecificContent{ShareContent: share},
		Visibility:      social.UGCVisibility{MemberNetworkVisibility: consts.LinkedinVisibilityPublic},
	})
	if err != nil {
		return nil, err
	}
	if id == "" {
		log.WarnContext(ctx, "linkedin accepted post without x-restli-id", "clerk_id", binding.ClerkID)
	}
	return &PublishedPost{ID: id, Text: c.ShareCommentary}, nil
}
