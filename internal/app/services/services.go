package services

import (
	"accounts/internal/app/deps"
	"accounts/internal/core/services"
	"accounts/internal/core/services/auth"
	changepassword "accounts/internal/core/services/change_password"
	deliveremail "accounts/internal/core/services/deliver_email"
	getuser "accounts/internal/core/services/get_user"
	loginwithemail "accounts/internal/core/services/log_in_with_email"
	logout "accounts/internal/core/services/log_out"
	loginstatus "accounts/internal/core/services/login_status"
	purgeresettokens "accounts/internal/core/services/purge_reset_tokens"
	resetpassword "accounts/internal/core/services/reset_password"
	sendpasswordresettoken "accounts/internal/core/services/send_password_reset_token"
	signupwithemail "accounts/internal/core/services/sign_up_with_email"
	updateuser "accounts/internal/core/services/update_user"
)

type Services struct {
	SignUpWithEmail services.Service[signupwithemail.Input, signupwithemail.Result]
	LogInWithEmail  services.Service[loginwithemail.Input, loginwithemail.Result]
	LogOut          services.Service[logout.Input, logout.Result]
	LoginStatus     services.Service[loginstatus.Input, loginstatus.Result]
	GetUser         services.Service[getuser.Input, getuser.Result]
	UpdateUser      services.Service[updateuser.Input, updateuser.Result]
	ChangePassword  services.Service[changepassword.Input, changepassword.Result]

	SendPasswordResetToken services.Service[sendpasswordresettoken.Input, sendpasswordresettoken.Result]
	ResetPassword          services.Service[resetpassword.Input, resetpassword.Result]
	PurgeResetTokens       services.Service[purgeresettokens.Input, purgeresettokens.Result]

	DeliverEmail services.Service[deliveremail.Input, deliveremail.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	authenticator := auth.NewAuthenticator(
		deps.Logger,
		deps.SessionTokenIssuer,
		deps.SessionRevoker,
		deps.UserRepository,
	)

	s.SignUpWithEmail = signupwithemail.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.PasswordHasher,
		deps.UserIDGenerator,
		deps.SessionTokenIssuer,
		deps.Now,
	)
	s.LogInWithEmail = loginwithemail.New(
		deps.Logger,
		deps.UserRepository,
		deps.PasswordHasher,
		deps.SessionTokenIssuer,
	)
	s.LogOut = logout.New(
		deps.Logger,
		deps.SessionTokenIssuer,
		deps.SessionRevoker,
	)
	s.LoginStatus = loginstatus.New(
		deps.Logger,
		deps.SessionTokenIssuer,
		deps.SessionRevoker,
	)
	s.GetUser = auth.WithAuthentication(
		authenticator,
		getuser.New(),
	)
	s.UpdateUser = auth.WithAuthentication(
		authenticator,
		updateuser.New(
			deps.Logger,
			deps.UserRepository,
			deps.Now,
		),
	)
	s.ChangePassword = auth.WithAuthentication(
		authenticator,
		changepassword.New(
			deps.Logger,
			deps.UserRepository,
			deps.PasswordHasher,
			deps.Now,
		),
	)

	s.SendPasswordResetToken = sendpasswordresettoken.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.PasswordResetter,
		deps.Notifier,
		sendpasswordresettoken.Config{
			TokenTTL:    deps.Config.ResetTokenTTL,
			FrontendURL: deps.Config.FrontendURL,
			Sender:      deps.Config.AwsEmailSender,
		},
		deps.Now,
	)
	s.ResetPassword = resetpassword.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.PasswordResetter,
		deps.PasswordHasher,
		deps.Now,
	)
	s.PurgeResetTokens = purgeresettokens.New(
		deps.Logger,
		deps.ResetTokenRepository,
		deps.Now,
	)

	s.DeliverEmail = deliveremail.New(deps.Logger, deps.EmailSender)

	return s
}
