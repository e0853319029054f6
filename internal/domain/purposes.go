package domain

// The 27 charitable purposes recognized by German tax law (§ 52 AO). Both
// project descriptions and foundation records carry purposes as these exact
// strings; purpose filtering is a literal membership test, never fuzzy.
const (
	PurposeScienceAndResearch         = "die Förderung von Wissenschaft und Forschung"
	PurposeReligion                   = "die Förderung der Religion"
	PurposePublicHealth               = "die Förderung des öffentlichen Gesundheitswesens und der öffentlichen Gesundheitspflege, insbesondere die Verhütung und Bekämpfung von übertragbaren Krankheiten, auch durch Krankenhäuser im Sinne des § 67, und von Tierseuchen"
	PurposeYouthAndElderlyCare        = "die Förderung der Jugend- und Altenhilfe"
	PurposeArtAndCulture              = "die Förderung von Kunst und Kultur"
	PurposeMonumentProtection         = "die Förderung des Denkmalschutzes und der Denkmalpflege"
	PurposeEducation                  = "die Förderung der Erziehung, Volks- und Berufsbildung einschließlich der Studentenhilfe"
	PurposeNatureAndEnvironment       = "die Förderung des Naturschutzes und der Landschaftspflege im Sinne des Bundesnaturschutzgesetzes und der Naturschutzgesetze der Länder, des Umweltschutzes, einschließlich des Klimaschutzes, des Küstenschutzes und des Hochwasserschutzes"
	PurposeWelfare                    = "die Förderung des Wohlfahrtswesens, insbesondere der Zwecke der amtlich anerkannten Verbände der freien Wohlfahrtspflege (§ 23 der Umsatzsteuer-Durchführungsverordnung), ihrer Unterverbände und ihrer angeschlossenen Einrichtungen und Anstalten"
	PurposeAidForPersecuted           = "die Förderung der Hilfe für politisch, rassistisch oder religiös Verfolgte, für Flüchtlinge, Vertriebene, Aussiedler, Spätaussiedler, Kriegsopfer, Kriegshinterbliebene, Kriegsbeschädigte und Kriegsgefangene, Zivilbeschädigte und Behinderte sowie Hilfe für Opfer von Straftaten; Förderung des Andenkens an Verfolgte, Kriegs- und Katastrophenopfer; Förderung des Suchdienstes für Vermisste, Förderung der Hilfe für Menschen, die auf Grund ihrer geschlechtlichen Identität oder ihrer geschlechtlichen Orientierung diskriminiert werden"
	PurposeRescueFromDanger           = "die Förderung der Rettung aus Lebensgefahr"
	PurposeFireAndDisasterProtection  = "die Förderung des Feuer-, Arbeits-, Katastrophen- und Zivilschutzes sowie der Unfallverhütung"
	PurposeInternationalTolerance     = "die Förderung internationaler Gesinnung, der Toleranz auf allen Gebieten der Kultur und des Völkerverständigungsgedankens"
	PurposeAnimalProtection           = "die Förderung des Tierschutzes"
	PurposeDevelopmentCooperation     = "die Förderung der Entwicklungszusammenarbeit"
	PurposeConsumerProtection         = "die Förderung von Verbraucherberatung und Verbraucherschutz"
	PurposeCareForPrisoners           = "die Förderung der Fürsorge für Strafgefangene und ehemalige Strafgefangene"
	PurposeGenderEquality             = "die Förderung der Gleichberechtigung von Frauen und Männern"
	PurposeMarriageAndFamily          = "die Förderung des Schutzes von Ehe und Familie"
	PurposeCrimePrevention            = "die Förderung der Kriminalprävention"
	PurposeSports                     = "die Förderung des Sports (Schach gilt als Sport)"
	PurposeLocalHeritage              = "die Förderung der Heimatpflege, Heimatkunde und der Ortsverschönerung"
	PurposeBreedingAndCustoms         = "die Förderung der Tierzucht, der Pflanzenzucht, der Kleingärtnerei, des traditionellen Brauchtums einschließlich des Karnevals, der Fastnacht und des Faschings, der Soldaten- und Reservistenbetreuung, des Amateurfunkens, des Freifunks, des Modellflugs und des Hundesports"
	PurposeDemocraticState            = "die allgemeine Förderung des demokratischen Staatswesens im Geltungsbereich dieses Gesetzes; hierzu gehören nicht Bestrebungen, die nur bestimmte Einzelinteressen staatsbürgerlicher Art verfolgen oder die auf den kommunalpolitischen Bereich beschränkt sind"
	PurposeCivicEngagement            = "die Förderung des bürgerschaftlichen Engagements zugunsten gemeinnütziger, mildtätiger und kirchlicher Zwecke"
	PurposeCemeteryMaintenance        = "die Förderung der Unterhaltung und Pflege von Friedhöfen und die Förderung der Unterhaltung von Gedenkstätten für nichtbestattungspflichtige Kinder und Föten"
	PurposeAffordableHousing          = "die Förderung wohngemeinnütziger Zwecke; dies ist die vergünstigte Wohnraumüberlassung an Personen im Sinne des § 53. § 53 Nummer 2 ist mit der Maßgabe anzuwenden, dass die Bezüge nicht höher sein dürfen als das Fünffache des Regelsatzes der Sozialhilfe im Sinne des § 28 des Zwölften Buches Sozialgesetzbuch; beim Alleinstehenden oder Alleinerziehenden tritt an die Stelle des Fünffachen das Sechsfache des Regelsatzes. Die Hilfebedürftigkeit muss zu Beginn des jeweiligen Mietverhältnisses vorliegen"
)

// CharitablePurposes lists the full taxonomy in statutory order.
var CharitablePurposes = []string{
	PurposeScienceAndResearch,
	PurposeReligion,
	PurposePublicHealth,
	PurposeYouthAndElderlyCare,
	PurposeArtAndCulture,
	PurposeMonumentProtection,
	PurposeEducation,
	PurposeNatureAndEnvironment,
	PurposeWelfare,
	PurposeAidForPersecuted,
	PurposeRescueFromDanger,
	PurposeFireAndDisasterProtection,
	PurposeInternationalTolerance,
	PurposeAnimalProtection,
	PurposeDevelopmentCooperation,
	PurposeConsumerProtection,
	PurposeCareForPrisoners,
	PurposeGenderEquality,
	PurposeMarriageAndFamily,
	PurposeCrimePrevention,
	PurposeSports,
	PurposeLocalHeritage,
	PurposeBreedingAndCustoms,
	PurposeDemocraticState,
	PurposeCivicEngagement,
	PurposeCemeteryMaintenance,
	PurposeAffordableHousing,
}

var purposeSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(CharitablePurposes))
	for _, p := range CharitablePurposes {
		m[p] = struct{}{}
	}
	return m
}()

// IsCharitablePurpose reports whether s is one of the 27 taxonomy entries.
func IsCharitablePurpose(s string) bool {
	_, ok := purposeSet[s]
	return ok
}

// ValidatePurposes checks that purposes is non-empty and every entry is a
// literal taxonomy match.
func ValidatePurposes(purposes []string) error {
	if len(purposes) == 0 {
		return ErrInvalidArgument
	}
	for _, p := range purposes {
		if !IsCharitablePurpose(p) {
			return ErrInvalidArgument
		}
	}
	return nil
}
