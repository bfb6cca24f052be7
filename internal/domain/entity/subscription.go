package entity

// SubscriptionActive único estado de suscripción que habilita el login de admin y staff.
// Cualquier otro valor de subscriptions.status (cancelled, expired, ...) cuenta como inactivo.
const SubscriptionActive = "active"
