package constants

// Exchange carrying notification events for the notification service.
const (
	NotificationsExchange     = "notifications"
	NotificationsExchangeType = "topic"
)

// Routing keys
const (
	RoutingKeyNotifyUser  = "notify.user"
	RoutingKeyNotifyAdmin = "notify.admin"
)

// Notification event types
const (
	NotifAnnonceCreee    = "ANNONCE_CREEE_EMPLOYEUR"
	NotifAnnonceModifiee = "ANNONCE_MODIFIEE_EMPLOYEUR"
	NotifAnnonceExpiree  = "ANNONCE_EXPIREE_EMPLOYEUR"
	NotifAnnonceAValider = "NOUVELLE_ANNONCE_A_VALIDER_ADMIN"
)

// Reference-data replication: the user and category services publish
// their changes on this exchange and we keep local read models in sync.
const (
	ReferenceExchange     = "referentiel"
	ReferenceExchangeType = "topic"
	ReferenceQueue        = "listing_service_referentiel"
	ReferenceRoutingKey   = "referentiel.#"

	ReferenceRetryExchange = ReferenceQueue + "_retry_ex"
	ReferenceRetryQueue    = ReferenceQueue + "_retry_wait_10s"
	ReferenceFinalDLX      = "listing_service_final_dlx"
	ReferenceFinalDLQ      = "listing_service_final_dlq"
)
