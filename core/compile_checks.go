package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ CredentialStore    = (*MemoryCredentialStore)(nil)
	_ MetricsRecorder    = NopMetricsRecorder{}
	_ JobDeliveryHandler = (*RefreshJobHandler)(nil)
	_ APIClient          = (*Client)(nil)
	_ RequestBody        = JSONBody{}
	_ RequestBody        = (*MultipartBody)(nil)
	_ Logger             = glog.Nop()
	_ LoggerProvider     = glog.ProviderFromLogger(glog.Nop())
)
