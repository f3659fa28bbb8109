package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/caminho-companion/api/docs"
	v1 "github.com/caminho-companion/api/internal/api/handler/v1"
	"github.com/caminho-companion/api/internal/api/middleware"
	"github.com/caminho-companion/api/internal/config"
	"github.com/caminho-companion/api/internal/objectstore"
	"github.com/caminho-companion/api/internal/payment"
	"github.com/caminho-companion/api/internal/push"
	"github.com/caminho-companion/api/internal/repository"
	"github.com/caminho-companion/api/internal/repository/dao"
	"github.com/caminho-companion/api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

type handlers struct {
	profile    *v1.ProfileHandler
	activity   *v1.ActivityHandler
	chat       *v1.ChatHandler
	rating     *v1.RatingHandler
	donation   *v1.DonationHandler
	push       *v1.PushHandler
	access     *v1.AccessHandler
	moderation *v1.ModerationHandler
	admin      *v1.AdminHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	profileRepo := repository.NewProfileRepository(dao.NewProfileDAO(db))
	activityRepo := repository.NewActivityRepository(dao.NewActivityDAO(db), profileRepo)
	inviteRepo := repository.NewInviteRepository(dao.NewInviteDAO(db))
	moderationRepo := repository.NewModerationRepository(dao.NewModerationDAO(db))
	donationRepo := repository.NewDonationRepository(dao.NewDonationDAO(db))
	pushRepo := repository.NewPushRepository(dao.NewPushDAO(db))

	profileSvc := service.NewProfileService(profileRepo)
	activitySvc := service.NewActivityService(activityRepo, profileRepo)
	recommendSvc := service.NewRecommendService(activityRepo, profileRepo)
	pushSvc := service.NewPushService(pushRepo, push.NewSender(conf.Push))
	chatSvc := service.NewChatService(activityRepo, activitySvc, pushSvc)
	ratingSvc := service.NewRatingService(activityRepo, activitySvc)
	donationSvc := service.NewDonationService(donationRepo, payment.NewStripeClient(conf.Stripe, conf.API.BaseURL))
	accessSvc := service.NewAccessService(inviteRepo, profileRepo, conf.API.AdminEmailList())
	moderationSvc := service.NewModerationService(moderationRepo, profileRepo)

	store := objectstore.NewClient(conf.ObjectStore)

	h := handlers{
		profile:    v1.NewProfileHandler(profileSvc, store),
		activity:   v1.NewActivityHandler(activitySvc, recommendSvc, accessSvc),
		chat:       v1.NewChatHandler(chatSvc, accessSvc),
		rating:     v1.NewRatingHandler(ratingSvc),
		donation:   v1.NewDonationHandler(donationSvc),
		push:       v1.NewPushHandler(pushSvc, conf.Push.VAPIDPublicKey),
		access:     v1.NewAccessHandler(accessSvc),
		moderation: v1.NewModerationHandler(moderationSvc),
		admin:      v1.NewAdminHandler(moderationSvc, profileSvc, accessSvc, store),
	}

	s.MountMiddlewares()
	s.MountHandlers(h, profileSvc)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers, profileSvc *service.ProfileService) {
	const basePath = "/api/v1"

	authn := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()

	// Access endpoints stay reachable for suspended users so the client can
	// show why the rest of the app is locked.
	access := s.Router.Group(basePath, authn)
	{
		access.GET("/access/status", h.access.HandleGetStatus)
		access.POST("/access/validate", h.access.HandleValidateInvite)
		access.POST("/access/redeem", h.access.HandleRedeemInvite)
	}

	app := s.Router.Group(basePath, authn, middleware.BlockSuspended(profileSvc, service.ErrProfileNotFound))
	{
		app.GET("/profiles/me", h.profile.HandleGetMyProfile)
		app.PUT("/profiles/me", h.profile.HandleSaveProfile)
		app.PUT("/profiles/me/photo", h.profile.HandleUpdatePhoto)
		app.POST("/profiles/me/terms", h.profile.HandleAcceptTerms)
		app.GET("/profiles/:userID", h.profile.HandleGetProfile)
		app.POST("/uploads/sign", h.profile.HandleSignUpload)
		app.POST("/verification", h.profile.HandleSubmitVerification)

		app.GET("/activities", h.activity.HandleListActivities)
		app.POST("/activities", h.activity.HandleCreateActivity)
		app.GET("/activities/recommended", h.activity.HandleListRecommended)
		app.GET("/activities/mine", h.activity.HandleListMine)
		app.GET("/activities/:activityID", h.activity.HandleGetDetail)
		app.DELETE("/activities/:activityID", h.activity.HandleDeleteActivity)
		app.POST("/activities/:activityID/join", h.activity.HandleJoinActivity)
		app.POST("/activities/:activityID/leave", h.activity.HandleLeaveActivity)

		app.GET("/activities/:activityID/messages", h.chat.HandleGetMessages)
		app.POST("/activities/:activityID/messages", h.chat.HandlePostMessage)
		app.GET("/activities/:activityID/ratings", h.rating.HandleGetRatings)
		app.POST("/activities/:activityID/ratings", h.rating.HandleCreateRating)

		app.GET("/rankings", h.activity.HandleGetRankings)

		app.POST("/donations", h.donation.HandleStartDonation)
		app.POST("/donations/:sessionID/confirm", h.donation.HandleConfirmDonation)

		app.GET("/push/key", h.push.HandleGetVAPIDKey)
		app.GET("/push/status", h.push.HandleGetStatus)
		app.POST("/push/subscribe", h.push.HandleSubscribe)
		app.DELETE("/push/subscribe", h.push.HandleUnsubscribe)
		app.POST("/push/test", h.push.HandleSendTest)

		app.GET("/invites", h.access.HandleListInvites)
		app.POST("/invites", h.access.HandleCreateInvite)
		app.DELETE("/invites/:inviteID", h.access.HandleDisableInvite)

		app.GET("/blocks", h.moderation.HandleListBlocked)
		app.POST("/blocks", h.moderation.HandleBlockUser)
		app.DELETE("/blocks/:userID", h.moderation.HandleUnblockUser)
		app.POST("/reports", h.moderation.HandleReportUser)

		app.GET("/admin/reports", h.admin.HandleListReports)
		app.PUT("/admin/reports/:reportID", h.admin.HandleUpdateReport)
		app.POST("/admin/users/:userID/suspend", h.admin.HandleSuspendUser)
		app.DELETE("/admin/users/:userID/suspend", h.admin.HandleUnsuspendUser)
		app.PUT("/admin/users/:userID/can-invite", h.admin.HandleSetCanInvite)
		app.PUT("/admin/users/:userID/admin", h.admin.HandleSetAdmin)
		app.GET("/admin/verifications", h.admin.HandleListVerifications)
		app.GET("/admin/verifications/:userID/documents", h.admin.HandleGetVerificationDocuments)
		app.PUT("/admin/verifications/:userID", h.admin.HandleReviewVerification)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Caminho Companion API"
	docs.SwaggerInfo.Description = "Social coordination API for trail pilgrims."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
