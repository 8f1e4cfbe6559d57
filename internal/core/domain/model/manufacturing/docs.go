// Package manufacturing models manufacturing orders created for the manufactured
// products of a confirmed sales order, and the production requests the CRM sends
// when an order enters production.
package manufacturing
