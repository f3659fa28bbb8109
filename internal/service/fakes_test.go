package service

import (
	"context"
	"time"

	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/repository"
)

// In-memory stand-ins for the storage layer. They mirror the conditional
// write semantics of the real DAOs so capacity races behave the same.

type fakeActivityRepo struct {
	activities   map[uint]domain.Activity
	order        []uint
	participants map[uint][]string
	messages     map[uint][]domain.ChatMessage
	ratings      map[uint][]domain.Rating
	rankings     []domain.UserRanking
	profiles     *fakeProfileRepo
	nextID       uint

	addParticipantErr error
}

func newFakeActivityRepo(profiles *fakeProfileRepo) *fakeActivityRepo {
	return &fakeActivityRepo{
		activities:   map[uint]domain.Activity{},
		participants: map[uint][]string{},
		messages:     map[uint][]domain.ChatMessage{},
		ratings:      map[uint][]domain.Rating{},
		profiles:     profiles,
	}
}

func (f *fakeActivityRepo) Create(_ context.Context, activity domain.Activity) (domain.Activity, error) {
	f.nextID++
	activity.ID = f.nextID
	activity.CreatedAt = time.Now()
	f.activities[activity.ID] = activity
	f.order = append(f.order, activity.ID)
	return activity, nil
}

func (f *fakeActivityRepo) GetByID(_ context.Context, id uint) (domain.Activity, error) {
	activity, ok := f.activities[id]
	if !ok {
		return domain.Activity{}, repository.ErrActivityNotFound
	}
	return activity, nil
}

func (f *fakeActivityRepo) annotate(activity domain.Activity) domain.AnnotatedActivity {
	name := domain.FallbackDisplayName
	if f.profiles != nil {
		if p, ok := f.profiles.byUserID[activity.CreatorID]; ok {
			name = p.DisplayName
		}
	}
	return domain.AnnotatedActivity{
		Activity:         activity,
		ParticipantCount: len(f.participants[activity.ID]) + 1,
		CreatorName:      name,
	}
}

// ListAll returns newest first, matching the storage layer's ordering.
func (f *fakeActivityRepo) ListAll(_ context.Context) ([]domain.AnnotatedActivity, error) {
	out := make([]domain.AnnotatedActivity, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		out = append(out, f.annotate(f.activities[f.order[i]]))
	}
	return out, nil
}

func (f *fakeActivityRepo) ListMine(_ context.Context, userID string) ([]domain.AnnotatedActivity, error) {
	var out []domain.AnnotatedActivity
	for i := len(f.order) - 1; i >= 0; i-- {
		id := f.order[i]
		activity := f.activities[id]
		mine := activity.CreatorID == userID
		for _, p := range f.participants[id] {
			if p == userID {
				mine = true
			}
		}
		if mine {
			out = append(out, f.annotate(activity))
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) Delete(_ context.Context, id uint) error {
	delete(f.activities, id)
	delete(f.participants, id)
	delete(f.messages, id)
	delete(f.ratings, id)
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeActivityRepo) CountParticipants(_ context.Context, activityID uint) (int, error) {
	return len(f.participants[activityID]), nil
}

func (f *fakeActivityRepo) ParticipantProfiles(_ context.Context, activityID uint) ([]domain.PilgrimProfile, error) {
	out := make([]domain.PilgrimProfile, 0, len(f.participants[activityID]))
	for _, userID := range f.participants[activityID] {
		if f.profiles != nil {
			if p, ok := f.profiles.byUserID[userID]; ok {
				out = append(out, p)
				continue
			}
		}
		out = append(out, domain.PilgrimProfile{UserID: userID, DisplayName: domain.FallbackDisplayName})
	}
	return out, nil
}

func (f *fakeActivityRepo) IsParticipant(_ context.Context, activityID uint, userID string) (bool, error) {
	for _, p := range f.participants[activityID] {
		if p == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeActivityRepo) AddParticipant(ctx context.Context, activityID uint, userID string) error {
	if f.addParticipantErr != nil {
		return f.addParticipantErr
	}

	activity, ok := f.activities[activityID]
	if !ok {
		return repository.ErrActivityNotFound
	}
	if joined, _ := f.IsParticipant(ctx, activityID, userID); joined {
		return repository.ErrAlreadyJoined
	}
	if len(f.participants[activityID])+1 >= activity.EffectiveSpots() {
		return repository.ErrActivityFull
	}

	f.participants[activityID] = append(f.participants[activityID], userID)
	return nil
}

func (f *fakeActivityRepo) RemoveParticipant(_ context.Context, activityID uint, userID string) error {
	list := f.participants[activityID]
	for i, p := range list {
		if p == userID {
			f.participants[activityID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeActivityRepo) CreateMessage(_ context.Context, message domain.ChatMessage) (domain.ChatMessage, error) {
	message.ID = uint(len(f.messages[message.ActivityID]) + 1)
	message.CreatedAt = time.Now()
	f.messages[message.ActivityID] = append(f.messages[message.ActivityID], message)
	return message, nil
}

func (f *fakeActivityRepo) ListMessages(_ context.Context, activityID uint) ([]domain.ChatMessage, error) {
	return f.messages[activityID], nil
}

func (f *fakeActivityRepo) CreateRating(_ context.Context, rating domain.Rating) (domain.Rating, error) {
	rating.ID = uint(len(f.ratings[rating.ActivityID]) + 1)
	rating.CreatedAt = time.Now()
	f.ratings[rating.ActivityID] = append(f.ratings[rating.ActivityID], rating)
	return rating, nil
}

func (f *fakeActivityRepo) ListRatings(_ context.Context, activityID uint) ([]domain.Rating, error) {
	return f.ratings[activityID], nil
}

func (f *fakeActivityRepo) ListUserRankings(_ context.Context) ([]domain.UserRanking, error) {
	return f.rankings, nil
}

type fakeProfileRepo struct {
	byUserID map[string]domain.PilgrimProfile
}

func newFakeProfileRepo(profiles ...domain.PilgrimProfile) *fakeProfileRepo {
	f := &fakeProfileRepo{byUserID: map[string]domain.PilgrimProfile{}}
	for _, p := range profiles {
		f.byUserID[p.UserID] = p
	}
	return f
}

func (f *fakeProfileRepo) FindByUserID(_ context.Context, userID string) (domain.PilgrimProfile, error) {
	profile, ok := f.byUserID[userID]
	if !ok {
		return domain.PilgrimProfile{}, repository.ErrProfileNotFound
	}
	return profile, nil
}

func (f *fakeProfileRepo) FindAll(_ context.Context) ([]domain.PilgrimProfile, error) {
	out := make([]domain.PilgrimProfile, 0, len(f.byUserID))
	for _, p := range f.byUserID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, profile domain.PilgrimProfile) (domain.PilgrimProfile, error) {
	existing, ok := f.byUserID[profile.UserID]
	if ok {
		profile.ID = existing.ID
		profile.IsAdmin = existing.IsAdmin
		profile.CanInvite = existing.CanInvite
		profile.IsSuspended = existing.IsSuspended
		profile.VerificationStatus = existing.VerificationStatus
		profile.AcceptedTermsAt = existing.AcceptedTermsAt
		profile.TermsVersion = existing.TermsVersion
		profile.PrivacyVersion = existing.PrivacyVersion
	} else {
		profile.ID = uint(len(f.byUserID) + 1)
		if profile.VerificationStatus == "" {
			profile.VerificationStatus = domain.VerificationUnverified
		}
	}
	f.byUserID[profile.UserID] = profile
	return profile, nil
}

func (f *fakeProfileRepo) UpdatePhoto(_ context.Context, userID, photoURL string) error {
	p, ok := f.byUserID[userID]
	if !ok {
		return repository.ErrProfileNotFound
	}
	p.PhotoURL = photoURL
	f.byUserID[userID] = p
	return nil
}

func (f *fakeProfileRepo) AcceptTerms(_ context.Context, userID, termsVersion, privacyVersion string) error {
	p, ok := f.byUserID[userID]
	if !ok {
		return repository.ErrProfileNotFound
	}
	now := time.Now()
	p.AcceptedTermsAt = &now
	p.TermsVersion = termsVersion
	p.PrivacyVersion = privacyVersion
	f.byUserID[userID] = p
	return nil
}

func (f *fakeProfileRepo) SetAdmin(_ context.Context, userID string, isAdmin bool) error {
	p := f.byUserID[userID]
	p.UserID = userID
	p.IsAdmin = isAdmin
	f.byUserID[userID] = p
	return nil
}

func (f *fakeProfileRepo) SetCanInvite(_ context.Context, userID string, canInvite bool) error {
	p := f.byUserID[userID]
	p.UserID = userID
	p.CanInvite = canInvite
	f.byUserID[userID] = p
	return nil
}

func (f *fakeProfileRepo) SetSuspended(_ context.Context, userID string, suspended bool, reason string) error {
	p := f.byUserID[userID]
	p.UserID = userID
	p.IsSuspended = suspended
	p.SuspensionReason = reason
	f.byUserID[userID] = p
	return nil
}

func (f *fakeProfileRepo) SubmitVerification(_ context.Context, userID, documentPath, selfiePath string) error {
	p, ok := f.byUserID[userID]
	if !ok {
		return repository.ErrProfileNotFound
	}
	now := time.Now()
	p.VerificationStatus = domain.VerificationPending
	p.VerificationSubmittedAt = &now
	p.DocumentPath = documentPath
	p.SelfiePath = selfiePath
	f.byUserID[userID] = p
	return nil
}

func (f *fakeProfileRepo) ReviewVerification(_ context.Context, userID, _, status, reason string) error {
	p, ok := f.byUserID[userID]
	if !ok {
		return repository.ErrProfileNotFound
	}
	now := time.Now()
	p.VerificationStatus = status
	p.VerificationReviewedAt = &now
	p.VerificationReason = reason
	f.byUserID[userID] = p
	return nil
}

func (f *fakeProfileRepo) FindByVerificationStatus(_ context.Context, statuses []string) ([]domain.PilgrimProfile, error) {
	var out []domain.PilgrimProfile
	for _, p := range f.byUserID {
		for _, s := range statuses {
			if p.VerificationStatus == s {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

type fakeInviteRepo struct {
	invites     []domain.Invite
	redemptions map[string]bool
	nextID      uint
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{redemptions: map[string]bool{}}
}

func (f *fakeInviteRepo) Create(_ context.Context, invite domain.Invite) (domain.Invite, error) {
	f.nextID++
	invite.ID = f.nextID
	invite.CreatedAt = time.Now()
	f.invites = append(f.invites, invite)
	return invite, nil
}

func (f *fakeInviteRepo) FindByCode(_ context.Context, code string) (domain.Invite, error) {
	for _, inv := range f.invites {
		if inv.Code == code {
			return inv, nil
		}
	}
	return domain.Invite{}, repository.ErrInviteNotFound
}

func (f *fakeInviteRepo) FindAll(_ context.Context) ([]domain.Invite, error) {
	return f.invites, nil
}

func (f *fakeInviteRepo) FindByCreator(_ context.Context, userID string) ([]domain.Invite, error) {
	var out []domain.Invite
	for _, inv := range f.invites {
		if inv.CreatedBy == userID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInviteRepo) Disable(_ context.Context, id uint) error {
	for i, inv := range f.invites {
		if inv.ID == id {
			f.invites[i].IsDisabled = true
		}
	}
	return nil
}

func (f *fakeInviteRepo) Consume(_ context.Context, code, userID string) (bool, error) {
	for i, inv := range f.invites {
		if inv.Code != code {
			continue
		}
		if !inv.Redeemable(time.Now()) {
			return false, nil
		}
		f.invites[i].UsedCount++
		f.redemptions[userID] = true
		return true, nil
	}
	return false, nil
}

func (f *fakeInviteRepo) HasRedemption(_ context.Context, userID string) (bool, error) {
	return f.redemptions[userID], nil
}

type fakePushRepo struct {
	byUserID map[string]domain.PushSubscription
}

func newFakePushRepo() *fakePushRepo {
	return &fakePushRepo{byUserID: map[string]domain.PushSubscription{}}
}

func (f *fakePushRepo) Save(_ context.Context, sub domain.PushSubscription) (domain.PushSubscription, error) {
	sub.ID = uint(len(f.byUserID) + 1)
	f.byUserID[sub.UserID] = sub
	return sub, nil
}

func (f *fakePushRepo) FindByUserID(_ context.Context, userID string) (domain.PushSubscription, error) {
	sub, ok := f.byUserID[userID]
	if !ok {
		return domain.PushSubscription{}, repository.ErrSubscriptionNotFound
	}
	return sub, nil
}

func (f *fakePushRepo) Delete(_ context.Context, userID string) error {
	delete(f.byUserID, userID)
	return nil
}

type fakePushSender struct {
	sent []string
	err  error
}

func (f *fakePushSender) Send(_ context.Context, sub domain.PushSubscription, _ domain.PushPayload) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sub.UserID)
	return nil
}

type fakeNotifier struct {
	notified []string
	payloads []domain.PushPayload
	err      error
}

func (f *fakeNotifier) NotifyUser(_ context.Context, userID string, payload domain.PushPayload) error {
	f.notified = append(f.notified, userID)
	f.payloads = append(f.payloads, payload)
	return f.err
}
