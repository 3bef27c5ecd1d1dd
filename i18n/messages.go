// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package i18n

import "golang.org/x/text/language"

var messages = map[language.Tag]map[Key]string{
	language.English: {
		MissingCredentials: "Please enter both email and password.",
		EmailRequired:      "Please enter your email.",
		EmailInvalid:       "Email address is not valid.",
		PasswordTooShort:   "Password must be at least %d characters.",
		PasswordMismatch:   "Passwords do not match.",
		PhoneInvalid:       "Phone number is not valid.",
		FullNameRequired:   "Please enter your full name.",
		CodeIncomplete:     "The verification code has %d digits.",

		UnknownAccount:      "This account does not exist. Please check your email.",
		InvalidCredentials:  "Email or password is incorrect.",
		NetworkUnreachable:  "Cannot reach the server. Please try again later.",
		SignInFailed:        "Sign-in failed. Please try again.",
		TokenSignInFailed:   "Sign-in with the identity provider failed. Please try again.",
		TokenMissing:        "Cannot authenticate with the identity provider. Please try again.",
		TokenSignInCanceled: "Sign-in with the identity provider was canceled.",

		CodeInvalid:   "The verification code is not correct.",
		CodeResent:    "A new verification code has been sent.",
		RequestFailed: "Something went wrong. Please try again.",
	},
	language.Vietnamese: {
		MissingCredentials: "Vui lòng nhập đầy đủ email và mật khẩu.",
		EmailRequired:      "Vui lòng nhập email.",
		EmailInvalid:       "Email chưa đúng định dạng.",
		PasswordTooShort:   "Mật khẩu cần ít nhất %d ký tự.",
		PasswordMismatch:   "Mật khẩu nhập lại chưa trùng khớp.",
		PhoneInvalid:       "Số điện thoại chưa hợp lệ.",
		FullNameRequired:   "Vui lòng nhập đầy đủ họ tên.",
		CodeIncomplete:     "Mã xác minh gồm %d số.",

		UnknownAccount:      "Tài khoản không tồn tại. Vui lòng kiểm tra lại email.",
		InvalidCredentials:  "Email hoặc mật khẩu chưa chính xác.",
		NetworkUnreachable:  "Không thể kết nối tới máy chủ. Vui lòng thử lại sau.",
		SignInFailed:        "Đăng nhập thất bại. Vui lòng thử lại.",
		TokenSignInFailed:   "Đăng nhập Google thất bại. Vui lòng thử lại.",
		TokenMissing:        "Không thể xác thực với Google. Vui lòng thử lại.",
		TokenSignInCanceled: "Đăng nhập Google đã bị huỷ.",

		CodeInvalid:   "Mã xác minh chưa chính xác.",
		CodeResent:    "Đã gửi lại mã xác minh.",
		RequestFailed: "Đã có lỗi xảy ra. Vui lòng thử lại.",
	},
}
