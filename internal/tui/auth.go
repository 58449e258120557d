package tui

import (
	"fmt"

	"github.com/derailed/tview"

	"github.com/mindvault/mindvault/internal/services"
)

// buildLoginScreen builds the email/password login form
func (a *App) buildLoginScreen() tview.Primitive {
	form := tview.NewForm().
		AddInputField("Email", "", 40, nil, nil).
		AddPasswordField("Password", "", 40, '*', nil)

	form.AddButton("Sign In", func() {
		email := form.GetFormItemByLabel("Email").(*tview.InputField).GetText()
		password := form.GetFormItemByLabel("Password").(*tview.InputField).GetText()
		go a.doLogin(email, password)
	})
	form.AddButton("Create Account", func() {
		a.switchAuthMode(services.AuthModeRegister)
	})
	form.AddButton("Forgot Password?", func() {
		a.switchAuthMode(services.AuthModeForgotPassword)
	})

	form.SetBorder(true).SetTitle(" MindVault | Sign In ")
	a.loginForm = form
	return centered(form, 60, 13)
}

// buildRegisterScreen builds the account creation form
func (a *App) buildRegisterScreen() tview.Primitive {
	form := tview.NewForm().
		AddInputField("Name", "", 40, nil, nil).
		AddInputField("Email", "", 40, nil, nil).
		AddPasswordField("Password", "", 40, '*', nil)

	form.AddButton("Create Account", func() {
		name := form.GetFormItemByLabel("Name").(*tview.InputField).GetText()
		email := form.GetFormItemByLabel("Email").(*tview.InputField).GetText()
		password := form.GetFormItemByLabel("Password").(*tview.InputField).GetText()
		go a.doRegister(email, password, name)
	})
	form.AddButton("Back to Sign In", func() {
		a.switchAuthMode(services.AuthModeLogin)
	})

	form.SetBorder(true).SetTitle(" MindVault | Create Account ")
	a.registerForm = form
	return centered(form, 60, 15)
}

// buildForgotScreen builds the password reset screen. It has two states:
// the email form, and a confirmation shown once a reset email went out for
// the submitted address.
func (a *App) buildForgotScreen() tview.Primitive {
	form := tview.NewForm().
		AddInputField("Email", "", 40, nil, nil)

	form.AddButton("Send Reset Email", func() {
		email := form.GetFormItemByLabel("Email").(*tview.InputField).GetText()
		go a.doResetPassword(email)
	})
	form.AddButton("Back to Sign In", func() {
		a.switchAuthMode(services.AuthModeLogin)
	})

	form.SetBorder(true).SetTitle(" MindVault | Reset Password ")
	a.forgotForm = form

	a.forgotSentView = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	sentForm := tview.NewForm()
	sentForm.AddButton("Back to Sign In", func() {
		a.switchAuthMode(services.AuthModeLogin)
	})
	sentForm.SetButtonsAlign(tview.AlignCenter)
	a.forgotSentForm = sentForm

	sent := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.forgotSentView, 4, 0, false).
		AddItem(sentForm, 0, 1, true)
	sent.SetBorder(true).SetTitle(" MindVault | Reset Password ")

	a.forgotPages = tview.NewPages().
		AddPage("form", centered(form, 60, 11), true, true).
		AddPage("sent", centered(sent, 60, 11), true, false)
	return a.forgotPages
}

// syncForgotScreen swaps between the reset form and the sent confirmation
// depending on whether a reset email already went out
func (a *App) syncForgotScreen() {
	if email, ok := a.session.ResetRequested(); ok {
		a.forgotSentView.SetText(fmt.Sprintf("\nCheck your email\n\nReset instructions were sent to [::b]%s[::-]", tview.Escape(email)))
		a.forgotPages.SwitchToPage("sent")
		a.SetFocus(a.forgotSentForm)
		return
	}
	a.forgotPages.SwitchToPage("form")
	a.SetFocus(a.forgotForm)
}

func (a *App) switchAuthMode(mode services.AuthMode) {
	if err := a.session.SetAuthMode(mode); err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Cannot switch screen")
		return
	}
	a.syncScreen()
}

func (a *App) doLogin(email, password string) {
	if err := a.session.Login(a.ctx, email, password); err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Sign in failed")
		return
	}
	a.QueueUpdateDraw(a.syncScreen)
	a.errorHandler.ShowMessage(a.ctx, fmt.Sprintf("Signed in as %s", email), LogLevelSuccess)
}

func (a *App) doRegister(email, password, name string) {
	if err := a.session.Register(a.ctx, email, password, name); err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Registration failed")
		return
	}
	a.QueueUpdateDraw(a.syncScreen)
	a.errorHandler.ShowMessage(a.ctx, "Account created. Sign in with your new credentials", LogLevelSuccess)
}

func (a *App) doResetPassword(email string) {
	if err := a.session.ResetPassword(a.ctx, email); err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Could not send reset email")
		return
	}
	a.QueueUpdateDraw(a.syncScreen)
	a.errorHandler.ShowMessage(a.ctx, fmt.Sprintf("Reset email sent to %s", email), LogLevelSuccess)
}

// centered wraps a primitive in a flex grid so it floats mid-screen
func centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}
